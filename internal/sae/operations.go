package sae

import (
	"context"
	"fmt"

	"github.com/S-Corkum/sae-inference/pkg/models"
)

// Validation messages returned to clients
const (
	MsgTextRequired     = "Text is required"
	MsgInvalidFeatureID = "Invalid feature ID"
	MsgQueryRequired    = "Query is required"
)

// EncodeRequest is the input of the encode operation
type EncodeRequest struct {
	Text string `json:"text"`
	// Layer defaults to Config.DefaultLayer when nil
	Layer *int `json:"layer"`
}

// SearchRequest is the input of the feature search operation
type SearchRequest struct {
	Query string
	// Limit defaults to Config.DefaultSearchLimit when nil
	Limit *int
}

// EncodeText validates req and runs Encode. Any failure during computation
// is reported as an internal error for the whole operation.
func (e *Engine) EncodeText(ctx context.Context, req EncodeRequest) (result *models.EncodingResult, err error) {
	if req.Text == "" {
		return nil, NewValidationError(OpEncode, MsgTextRequired)
	}

	layer := e.config.DefaultLayer
	if req.Layer != nil {
		layer = *req.Layer
	}

	defer recoverInternal(OpEncode, &err)
	result, err = e.Encode(ctx, req.Text, layer)
	if err != nil {
		return nil, asInternal(OpEncode, err)
	}
	return result, nil
}

// LookupFeature validates featureID against the feature space and describes it
func (e *Engine) LookupFeature(ctx context.Context, featureID int) (result *models.FeatureMetadata, err error) {
	if featureID < 0 || featureID >= e.config.FeatureDimension {
		return nil, NewValidationError(OpFeature, MsgInvalidFeatureID)
	}

	_, span := e.tracer.Start(ctx, "sae.Describe")
	defer span.End()

	defer recoverInternal(OpFeature, &err)
	metadata := e.Describe(featureID)
	return &metadata, nil
}

// SearchFeatures validates req, applies the default and maximum limits and
// runs Search
func (e *Engine) SearchFeatures(ctx context.Context, req SearchRequest) (result *models.SearchResult, err error) {
	if req.Query == "" {
		return nil, NewValidationError(OpSearch, MsgQueryRequired)
	}

	limit := e.config.DefaultSearchLimit
	if req.Limit != nil {
		limit = *req.Limit
	}
	limit = e.EffectiveLimit(limit)

	defer recoverInternal(OpSearch, &err)
	found := e.Search(ctx, req.Query, limit)
	return &found, nil
}

// EffectiveLimit clamps a requested search limit to [0, MaxSearchLimit]
func (e *Engine) EffectiveLimit(limit int) int {
	return max(0, min(limit, e.config.MaxSearchLimit))
}

// recoverInternal turns a panic in the running operation into an internal error
func recoverInternal(op string, err *error) {
	if r := recover(); r != nil {
		if cause, ok := r.(error); ok {
			*err = NewInternalError(op, cause)
			return
		}
		*err = NewInternalError(op, fmt.Errorf("%v", r))
	}
}

// asInternal keeps classified errors and wraps anything else as internal
func asInternal(op string, err error) error {
	if _, ok := err.(*Error); ok {
		return err
	}
	return NewInternalError(op, err)
}
