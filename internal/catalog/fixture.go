package catalog

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/jstiltner/document-understanding/internal/model"
)

// LoadFieldsFromFile reads a JSON array of model.FieldDefinition from the
// given path. Used to seed a catalog from a file instead of the built-in
// defaults.
func LoadFieldsFromFile(path string) ([]model.FieldDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read fields fixture")
	}

	var fields []model.FieldDefinition
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, eris.Wrap(err, "catalog: unmarshal fields fixture")
	}

	return fields, nil
}
