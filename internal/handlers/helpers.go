package handlers

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// objectIDParam parses a hex ObjectID from a route parameter.
func objectIDParam(c *fiber.Ctx, name string) (primitive.ObjectID, error) {
	raw := c.Params(name)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid id '%s'", raw)
	}
	return id, nil
}

// objectIDFromHexField parses a hex ObjectID arriving in a request body.
func objectIDFromHexField(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid id '%s'", raw)
	}
	return id, nil
}

// validationErrorMap flattens validator errors into a field-keyed map for the
// response body.
func validationErrorMap(err error) map[string]string {
	errorMessages := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errorMessages["request"] = err.Error()
		return errorMessages
	}
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return errorMessages
}

// saveUpload stores an uploaded file under uploadDir/subdir with a
// uuid-prefixed name and returns the public URL path for it.
func saveUpload(c *fiber.Ctx, file *multipart.FileHeader, uploadDir, subdir string) (string, error) {
	name := uuid.New().String() + "_" + sanitizeFilename(file.Filename)
	dst := filepath.Join(uploadDir, subdir, name)
	if err := c.SaveFile(file, dst); err != nil {
		return "", fmt.Errorf("failed to save uploaded file: %w", err)
	}
	return "/" + subdir + "/" + name, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	return strings.ReplaceAll(name, " ", "_")
}
