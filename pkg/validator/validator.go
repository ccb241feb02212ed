package validator

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// FieldError describe un campo que no pasó la validación estructural.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

// ValidateStruct aplica las tags `validate` de un request DTO y devuelve los
// campos inválidos (vacío = OK).
func ValidateStruct(s any) []FieldError {
	var out []FieldError
	if err := validate.Struct(s); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			out = append(out, FieldError{
				Field: fe.Field(),
				Tag:   fe.Tag(),
				Param: fe.Param(),
			})
		}
	}
	return out
}
