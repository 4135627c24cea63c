package appsearch

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// requiredFields lists the fields every document must carry, in the order
// they are reported.
var requiredFields = []string{"id"}

var documentRule = func() validation.MapRule {
	keys := make([]*validation.KeyRules, len(requiredFields))
	for i, f := range requiredFields {
		keys[i] = validation.Key(f, validation.Required)
	}
	return validation.Map(keys...).AllowExtraKeys()
}()

// RequiredFields returns the names of the fields a document must carry.
func RequiredFields() []string {
	return append([]string(nil), requiredFields...)
}

// ValidateDocument checks that doc carries every required field with a
// non-empty value. It returns an *InvalidDocumentError naming the missing
// fields, or nil.
func ValidateDocument(doc Document) error {
	missing := missingFields(doc)
	if len(missing) == 0 {
		return nil
	}
	return &InvalidDocumentError{
		Message:  "Missing required fields: " + strings.Join(missing, ", "),
		Document: doc,
	}
}

// validateDocuments stops at the first invalid document.
func validateDocuments(docs []Document) error {
	for _, doc := range docs {
		if err := ValidateDocument(doc); err != nil {
			return err
		}
	}
	return nil
}

func missingFields(doc Document) []string {
	if doc == nil {
		return RequiredFields()
	}

	err := documentRule.Validate(map[string]any(doc))
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return RequiredFields()
	}
	var missing []string
	for _, f := range requiredFields {
		if _, ok := errs[f]; ok {
			missing = append(missing, f)
		}
	}
	return missing
}
