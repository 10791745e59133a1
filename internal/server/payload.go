package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/desertthunder/openmusic/internal/models"
	"github.com/desertthunder/openmusic/internal/shared"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and validates it. Failures are client errors.
func decode(r *http.Request, dst any) error {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		if errors.Is(err, io.EOF) {
			return shared.ClientError("request body is required")
		}
		return shared.Wrap(shared.KindClient, "request body is not valid JSON", err)
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return shared.Wrap(shared.KindClient, validationMessage(verrs), err)
		}
		return fmt.Errorf("failed to validate payload: %w", err)
	}
	return nil
}

func validationMessage(verrs validator.ValidationErrors) string {
	return strings.Join(lo.Map([]validator.FieldError(verrs), func(fe validator.FieldError, _ int) string {
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("%s is required", fe.Field())
		case "min", "gte":
			return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
		case "max", "lte":
			return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
		default:
			return fmt.Sprintf("%s is invalid", fe.Field())
		}
	}), "; ")
}

type albumPayload struct {
	Name string `json:"name" validate:"required"`
	Year int    `json:"year" validate:"required,gte=1"`
}

func (p albumPayload) fields() models.AlbumFields {
	return models.AlbumFields{Name: p.Name, Year: p.Year}
}

type songPayload struct {
	Title     string  `json:"title"`
	Year      int     `json:"year" validate:"required,gte=1"`
	Performer string  `json:"performer" validate:"required"`
	Genre     string  `json:"genre" validate:"required"`
	Duration  *int    `json:"duration" validate:"omitempty,gte=0"`
	AlbumID   *string `json:"albumId" validate:"omitempty,min=1"`
}

func (p songPayload) fields() models.SongFields {
	return models.SongFields{
		Title:     p.Title,
		Year:      p.Year,
		Performer: p.Performer,
		Genre:     p.Genre,
		Duration:  p.Duration,
		AlbumID:   p.AlbumID,
	}
}

type userPayload struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
	Fullname string `json:"fullname" validate:"required"`
}

type loginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshPayload struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type playlistPayload struct {
	Name string `json:"name" validate:"required"`
}

type playlistSongPayload struct {
	SongID string `json:"songId" validate:"required"`
}
