// Package validation содержит функции валидации входных данных.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/mmeshcher/inventory-console/internal/model"
)

var (
	// ErrNoItems возвращается для заказа без позиций.
	ErrNoItems = errors.New("at least one item is required")
	// ErrInvalidQuantity возвращается для неположительного количества.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrMissingProduct возвращается для позиции без товара.
	ErrMissingProduct = errors.New("item product is required")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return model.Role(fl.Field().String()).Valid()
	}); err != nil {
		panic(err)
	}
	return v
}

// Struct проверяет структуру по тегам validate и возвращает первое нарушение.
func Struct(v any) error {
	return translate(validate.Struct(v))
}

// IsValidEmail проверяет, что строка является одиночным почтовым адресом без отображаемого имени.
func IsValidEmail(email string) bool {
	return validate.Var(strings.TrimSpace(email), "required,email") == nil
}

type lineItems struct {
	Items []model.LineItem `json:"items" validate:"required,min=1,dive"`
}

// ValidateLineItems проверяет позиции заказа: список не пуст, у каждой позиции
// указан товар и положительное количество.
func ValidateLineItems(items []model.LineItem) error {
	return Struct(lineItems{Items: items})
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	_, path, _ := strings.Cut(fe.Namespace(), ".")
	msg := fmt.Sprintf("%s: failed %q", path, fe.Tag())
	if sentinel := sentinelFor(fe); sentinel != nil {
		return fmt.Errorf("%s: %w", msg, sentinel)
	}
	return errors.New(msg)
}

func sentinelFor(fe validator.FieldError) error {
	switch fe.Field() {
	case "items":
		return ErrNoItems
	case "productId":
		return ErrMissingProduct
	case "quantity":
		return ErrInvalidQuantity
	}
	return nil
}
