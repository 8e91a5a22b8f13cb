package exchange

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/inkline/pkg/attachments"
	"github.com/go-go-golems/inkline/pkg/providers/gemini"
	"github.com/go-go-golems/inkline/pkg/turns"
)

// materializeTurns resolves every attachment reference in the turn sequence
// to inline bytes. The last turn is the one being sent; a rasterization
// failure there fails the exchange, while the same failure on an ancestor
// drops that turn. A missing attachment degrades to an omission marker so
// the request stays sendable.
func (e *Exchanger) materializeTurns(ctx context.Context, ts []turns.Turn) ([]turns.Turn, error) {
	out := make([]turns.Turn, 0, len(ts))
	for i := range ts {
		t := ts[i]
		isLeaf := i == len(ts)-1

		kept := t.Attachments[:0:0]
		dropTurn := false
		for _, att := range t.Attachments {
			m, err := e.materializer.Materialize(ctx, att, "")
			if err != nil {
				if attachments.IsRasterizationError(err) {
					if isLeaf {
						return nil, err
					}
					log.Debug().Err(err).Msg("dropping ancestor turn with unrasterizable drawing")
					dropTurn = true
					break
				}
				return nil, err
			}
			if m == nil {
				t.AppendText(omissionMarker(att))
				continue
			}
			att.Data = base64.StdEncoding.EncodeToString(m.Data)
			att.MimeType = m.MimeType
			if att.Kind == turns.AttachmentInk {
				att.Kind = turns.AttachmentImage
			}
			kept = append(kept, att)
		}
		if dropTurn {
			continue
		}
		t.Attachments = kept
		out = append(out, t)
	}
	return out, nil
}

func omissionMarker(att turns.Attachment) string {
	label := att.Name
	if label == "" {
		label = att.StorageKey
	}
	if label == "" {
		label = string(att.Kind)
	}
	return fmt.Sprintf("[attachment omitted: %s]", label)
}

// resolveFileURIs uploads document attachments through the Files API and
// stamps the returned handles onto the attachments, so the request builder
// stays free of I/O. Attachments without a storage key have no stable cache
// identity and stay inline.
func (e *Exchanger) resolveFileURIs(ctx context.Context, up *gemini.Uploader, ts []turns.Turn) error {
	for i := range ts {
		for j := range ts[i].Attachments {
			att := &ts[i].Attachments[j]
			if att.Kind != turns.AttachmentPDF || att.StorageKey == "" || att.Data == "" {
				continue
			}
			raw, err := base64.StdEncoding.DecodeString(att.Data)
			if err != nil {
				return errors.Wrap(err, "decode attachment for upload")
			}
			uri, err := up.EnsureFileURI(ctx, att.StorageKey, att.MimeType, raw)
			if err != nil {
				return errors.Wrapf(err, "upload attachment %s", att.StorageKey)
			}
			att.FileURI = uri
			att.Data = ""
		}
	}
	return nil
}
