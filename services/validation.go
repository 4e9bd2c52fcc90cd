package services

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/camden-git/mediashare/apperror"
	"github.com/camden-git/mediashare/models"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their json name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags of v and returns the first failure as a ValidationFailed error.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperror.ValidationFailed("", err.Error())
	}
	fe := verrs[0]
	field := fe.Field()
	return apperror.ValidationFailed(field, describe(field, fe))
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "url", "http_url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "alphanum":
		return fmt.Sprintf("%s may only contain letters and digits", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// parseAlbumID parses the decimal album id used as a comment or favorite target.
func parseAlbumID(targetID string) (uint, error) {
	id, err := strconv.ParseUint(targetID, 10, 32)
	if err != nil || id == 0 {
		return 0, apperror.ValidationFailed("target_id", "album target id must be a positive integer")
	}
	return uint(id), nil
}

func albumTargetID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// canonicalTarget normalizes album target ids so "042" and "42" address the same album.
func canonicalTarget(kind models.TargetKind, targetID string) (string, error) {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return "", apperror.ValidationFailed("target_id", "target_id is required")
	}
	if kind != models.TargetAlbum {
		return targetID, nil
	}
	id, err := parseAlbumID(targetID)
	if err != nil {
		return "", err
	}
	return albumTargetID(id), nil
}
