package service

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"clubhub/internal/model"
	"clubhub/internal/repo"
	"clubhub/pkg/validator"
)

// collection describes one document kind: how to decode its body and which
// top-level keys an update may touch.
type collection struct {
	decode func(raw []byte) (any, error)
	fields map[string]bool
}

func collectionOf[T any]() collection {
	var zero T
	return collection{
		decode: func(raw []byte) (any, error) {
			v := new(T)
			dec := json.NewDecoder(bytes.NewReader(raw))
			dec.DisallowUnknownFields()
			if err := dec.Decode(v); err != nil {
				return nil, err
			}
			return v, nil
		},
		fields: jsonFields(reflect.TypeOf(zero)),
	}
}

func jsonFields(t reflect.Type) map[string]bool {
	out := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
		if name != "" && name != "-" {
			out[name] = true
		}
	}
	return out
}

var collections = map[string]collection{
	model.KindAchievement: collectionOf[model.Achievement](),
	model.KindGallery:     collectionOf[model.GalleryItem](),
	model.KindArtwork:     collectionOf[model.Artwork](),
	model.KindOpportunity: collectionOf[model.Opportunity](),
	model.KindMember:      collectionOf[model.Member](),
}

// Kinds lists the known document kinds in a stable order.
func Kinds() []string {
	out := make([]string, 0, len(collections))
	for k := range collections {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func lookupCollection(kind string) (collection, error) {
	c, ok := collections[kind]
	if !ok {
		return collection{}, ErrUnknownKind
	}
	return c, nil
}

// decodeBody checks raw against the kind's typed body and returns it in
// canonical form.
func decodeBody(ctx context.Context, c collection, raw []byte) (json.RawMessage, error) {
	v, err := c.decode(raw)
	if err != nil {
		return nil, validator.NewValidationError(validator.FieldError{Field: "data", Error: validator.ErrInvalidFormat + ": " + err.Error()})
	}
	if err := validator.Validate(ctx, v); err != nil {
		return nil, prefixFields(err, "data.")
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode document")
	}
	return out, nil
}

func prefixFields(err error, prefix string) error {
	var ve *validator.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	for i := range ve.Fields {
		ve.Fields[i].Field = prefix + ve.Fields[i].Field
	}
	return ve
}

func (s *Service) CreateDocument(ctx context.Context, kind string, published *bool, data json.RawMessage) (*model.Document, error) {
	c, err := lookupCollection(kind)
	if err != nil {
		return nil, err
	}
	body, err := decodeBody(ctx, c, data)
	if err != nil {
		return nil, err
	}
	d := &model.Document{Kind: kind, Data: body, Published: true}
	if published != nil {
		d.Published = *published
	}
	id, err := s.repo.CreateDocument(ctx, d)
	if err != nil {
		s.log.Error().Err(err).Str("kind", kind).Msg("failed to create document")
		return nil, err
	}
	d.ID = id
	s.log.Info().Int64("document_id", id).Str("kind", kind).Msg("document created")
	return d, nil
}

// UpdateDocument overlays patch on the stored body. Keys outside the kind's
// fields are rejected before anything is loaded.
func (s *Service) UpdateDocument(ctx context.Context, kind string, id int64, published *bool, patch map[string]json.RawMessage) (*model.Document, error) {
	c, err := lookupCollection(kind)
	if err != nil {
		return nil, err
	}
	var bad []validator.FieldError
	for key := range patch {
		if !c.fields[key] {
			bad = append(bad, validator.FieldError{Field: "data." + key, Error: "Field cannot be changed"})
		}
	}
	if len(bad) > 0 {
		sort.Slice(bad, func(i, j int) bool { return bad[i].Field < bad[j].Field })
		return nil, validator.NewValidationError(bad...)
	}

	d, err := s.repo.GetDocument(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if len(patch) > 0 {
		merged := map[string]json.RawMessage{}
		if len(d.Data) > 0 {
			if err := json.Unmarshal(d.Data, &merged); err != nil {
				return nil, errors.Wrap(err, "stored document is not an object")
			}
		}
		for k, v := range patch {
			merged[k] = v
		}
		raw, err := json.Marshal(merged)
		if err != nil {
			return nil, errors.Wrap(err, "failed to merge document")
		}
		if d.Data, err = decodeBody(ctx, c, raw); err != nil {
			return nil, err
		}
	}
	if published != nil {
		d.Published = *published
	}
	if err := s.repo.UpdateDocument(ctx, d); err != nil {
		return nil, err
	}
	s.log.Info().Int64("document_id", id).Str("kind", kind).Msg("document updated")
	return d, nil
}

func (s *Service) DeleteDocument(ctx context.Context, kind string, id int64) error {
	if _, err := lookupCollection(kind); err != nil {
		return err
	}
	return s.repo.DeleteDocument(ctx, kind, id)
}

// GetDocument returns a document. Unpublished documents are only visible when
// includeDrafts is set.
func (s *Service) GetDocument(ctx context.Context, kind string, id int64, includeDrafts bool) (*model.Document, error) {
	if _, err := lookupCollection(kind); err != nil {
		return nil, err
	}
	d, err := s.repo.GetDocument(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if !d.Published && !includeDrafts {
		return nil, repo.ErrDocumentNotFound
	}
	return d, nil
}

func (s *Service) ListDocuments(ctx context.Context, kind string, includeDrafts bool) ([]model.Document, error) {
	if _, err := lookupCollection(kind); err != nil {
		return nil, err
	}
	return s.repo.GetDocuments(ctx, kind, !includeDrafts)
}
