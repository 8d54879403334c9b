package handlers

import (
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/service-bay/ticket-service/internal/api/dto"
	"github.com/service-bay/ticket-service/internal/auth"
	"github.com/service-bay/ticket-service/internal/domain"
	"github.com/service-bay/ticket-service/internal/service"
	apperrors "github.com/service-bay/ticket-service/pkg/util/errorutil"
)

func actorFrom(c *fiber.Ctx) (domain.Actor, error) {
	user, ok := auth.PrincipalFromContext(c)
	if !ok {
		return domain.Actor{}, apperrors.NewUnauthorized("Authentication credentials were not provided.")
	}
	return user.Actor(), nil
}

// parseBody decodes a JSON body into dst. An empty body leaves dst untouched.
func parseBody(c *fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.App().Config().JSONDecoder(c.Body(), dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return apperrors.NewFieldErrors(map[string]string{typeErr.Field: "Incorrect type. Expected " + typeErr.Type.String() + "."})
		}
		return apperrors.NewValidationError("JSON parse error", map[string]any{"detail": err.Error()})
	}
	return nil
}

// pageRequest reads page and page_size. "last" selects the final page;
// any other non-positive or non-numeric page is invalid.
func pageRequest(c *fiber.Ctx) (service.PageRequest, error) {
	var req service.PageRequest
	switch raw := strings.TrimSpace(c.Query("page")); raw {
	case "":
	case "last":
		req.Page = service.LastPage
	default:
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return req, service.ErrInvalidPage()
		}
		req.Page = page
	}
	if size, err := strconv.Atoi(c.Query("page_size")); err == nil && size > 0 {
		req.PageSize = size
	}
	return req, nil
}

func pageEnvelope[T any](c *fiber.Ctx, info service.PageInfo, results []T) dto.Page[T] {
	page := dto.Page[T]{Count: info.Count, Results: results}
	if info.HasNext {
		next := pageURL(c, info.Page+1)
		page.Next = &next
	}
	if info.HasPrevious {
		prev := pageURL(c, info.Page-1)
		page.Previous = &prev
	}
	return page
}

// pageURL rebuilds the request URL pointing at page. The first page is
// addressed without a page parameter.
func pageURL(c *fiber.Ctx, page int) string {
	query, _ := url.ParseQuery(string(c.Request().URI().QueryString()))
	if page <= 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(page))
	}
	u := c.BaseURL() + c.Path()
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}
