package attachments

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/go-go-golems/inkline/pkg/turns"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Materialized is an attachment resolved to concrete bytes.
type Materialized struct {
	MimeType string
	Data     []byte
}

// Base64 returns the materialized bytes as standard base64.
func (m *Materialized) Base64() string {
	return base64.StdEncoding.EncodeToString(m.Data)
}

// Materializer resolves attachment references to bytes, independent of any
// provider. Materialization is idempotent and safe to retry.
type Materializer struct {
	store  Store
	raster RasterOptions
}

// NewMaterializer returns a materializer reading indirect attachments from
// the given store.
func NewMaterializer(store Store, raster RasterOptions) *Materializer {
	return &Materializer{store: store, raster: raster}
}

// Materialize resolves a single attachment. It returns (nil, nil) when the
// attachment's storage key cannot be resolved: the caller substitutes an
// inline omission marker so the request stays sendable. Ink attachments are
// rasterized into a synthetic PNG image; a RasterizationError propagates so
// the caller can apply the leaf-versus-ancestor policy.
func (m *Materializer) Materialize(ctx context.Context, att turns.Attachment, fallbackMime string) (*Materialized, error) {
	if att.Kind == turns.AttachmentInk {
		return m.materializeInk(ctx, att)
	}

	// Inline data always wins when present.
	if att.Data != "" {
		raw, err := base64.StdEncoding.DecodeString(att.Data)
		if err != nil {
			return nil, errors.Wrap(err, "decode inline attachment data")
		}
		return &Materialized{MimeType: mimeOr(att.MimeType, fallbackMime), Data: raw}, nil
	}

	if att.StorageKey == "" {
		return nil, nil
	}
	blob, err := m.store.Get(ctx, att.StorageKey)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch attachment %s", att.StorageKey)
	}
	if blob == nil {
		log.Debug().Str("storage_key", att.StorageKey).Msg("attachment missing from store")
		return nil, nil
	}
	return &Materialized{MimeType: mimeOr(blob.MimeType, mimeOr(att.MimeType, fallbackMime)), Data: blob.Data}, nil
}

func (m *Materializer) materializeInk(ctx context.Context, att turns.Attachment) (*Materialized, error) {
	strokes := att.Strokes
	if len(strokes) == 0 && att.StorageKey != "" {
		blob, err := m.store.Get(ctx, att.StorageKey)
		if err != nil {
			return nil, errors.Wrapf(err, "fetch ink strokes %s", att.StorageKey)
		}
		if blob == nil {
			return nil, nil
		}
		if err := json.Unmarshal(blob.Data, &strokes); err != nil {
			return nil, errors.Wrapf(err, "decode ink strokes %s", att.StorageKey)
		}
	}
	data, err := RasterizeInk(strokes, m.raster)
	if err != nil {
		return nil, err
	}
	return &Materialized{MimeType: "image/png", Data: data}, nil
}

func mimeOr(mime, fallback string) string {
	if mime != "" {
		return mime
	}
	return fallback
}
