package catalog

import (
	"context"
	"regexp"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/jstiltner/document-understanding/internal/model"
	"github.com/jstiltner/document-understanding/internal/store"
)

// nameRegex constrains canonical field names: snake_case, immutable,
// machine-facing.
var nameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Service manages the versioned field catalog over the store.
type Service struct {
	store store.Store
}

// NewService creates a catalog Service.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Load returns an indexed FieldCatalog over the active definitions.
func (s *Service) Load(ctx context.Context) (*model.FieldCatalog, error) {
	fields, err := s.store.ListFieldDefinitions(ctx, true)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: list active fields")
	}
	return model.NewFieldCatalog(fields), nil
}

// ActiveFields returns all active definitions.
func (s *Service) ActiveFields(ctx context.Context) ([]model.FieldDefinition, error) {
	return s.store.ListFieldDefinitions(ctx, true)
}

// RequiredFields returns the active required definitions.
func (s *Service) RequiredFields(ctx context.Context) ([]model.FieldDefinition, error) {
	return s.filtered(ctx, true)
}

// OptionalFields returns the active optional definitions.
func (s *Service) OptionalFields(ctx context.Context) ([]model.FieldDefinition, error) {
	return s.filtered(ctx, false)
}

func (s *Service) filtered(ctx context.Context, required bool) ([]model.FieldDefinition, error) {
	fields, err := s.store.ListFieldDefinitions(ctx, true)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: list active fields")
	}
	out := fields[:0:0]
	for _, f := range fields {
		if f.Required == required {
			out = append(out, f)
		}
	}
	return out, nil
}

// ByName returns the active definition with the given canonical name, or
// nil when absent or deactivated.
func (s *Service) ByName(ctx context.Context, name string) (*model.FieldDefinition, error) {
	def, err := s.store.GetFieldDefinition(ctx, name)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: get field %s", name)
	}
	if def == nil || !def.Active {
		return nil, nil
	}
	return def, nil
}

// Create validates and persists a new definition. The canonical name is
// fixed from this point on.
func (s *Service) Create(ctx context.Context, def model.FieldDefinition) error {
	if !nameRegex.MatchString(def.Name) {
		return eris.Errorf("catalog: invalid field name %q (want snake_case)", def.Name)
	}
	if def.DisplayName == "" {
		return eris.New("catalog: display_name is required")
	}
	if def.Type == "" {
		def.Type = model.FieldTypeText
	}
	if !def.Type.Valid() {
		return eris.Errorf("catalog: invalid field type %q", def.Type)
	}
	if def.ValidationPattern != "" {
		if _, err := regexp.Compile(def.ValidationPattern); err != nil {
			return eris.Wrapf(err, "catalog: invalid validation pattern for %s", def.Name)
		}
	}
	def.Active = true
	return eris.Wrapf(s.store.CreateFieldDefinition(ctx, def), "catalog: create field %s", def.Name)
}

// Update applies a partial update. The canonical name cannot change.
func (s *Service) Update(ctx context.Context, name string, upd store.FieldUpdate) error {
	if upd.Type != nil && !upd.Type.Valid() {
		return eris.Errorf("catalog: invalid field type %q", *upd.Type)
	}
	if upd.ValidationPattern != nil && *upd.ValidationPattern != "" {
		if _, err := regexp.Compile(*upd.ValidationPattern); err != nil {
			return eris.Wrapf(err, "catalog: invalid validation pattern for %s", name)
		}
	}
	return eris.Wrapf(s.store.UpdateFieldDefinition(ctx, name, upd), "catalog: update field %s", name)
}

// Deactivate soft-deletes a definition. The row is retained so historical
// feedback keeps a valid field name to join on; it simply disappears from
// prompts and scoring.
func (s *Service) Deactivate(ctx context.Context, name string) error {
	return eris.Wrapf(s.store.DeactivateFieldDefinition(ctx, name), "catalog: deactivate field %s", name)
}

// Bootstrap seeds the default field set when the catalog is empty. It is
// idempotent: a non-empty catalog (active or not) is left untouched, and
// repeated calls never duplicate definitions. Returns the number of
// definitions created.
func (s *Service) Bootstrap(ctx context.Context) (int, error) {
	count, err := s.store.CountFieldDefinitions(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "catalog: count fields")
	}
	if count > 0 {
		return 0, nil
	}

	defaults := DefaultFields()
	for _, def := range defaults {
		if err := s.store.CreateFieldDefinition(ctx, def); err != nil {
			return 0, eris.Wrapf(err, "catalog: bootstrap field %s", def.Name)
		}
	}

	zap.L().Info("catalog bootstrapped", zap.Int("fields", len(defaults)))
	return len(defaults), nil
}
