package projection

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/heartmarshall/slide-relay/internal/domain"
)

// applyPreview resolves the target slide, marks it as having a preview and
// upserts the asset in one transaction, so a slide never shows
// has_preview without its asset.
//
// Target resolution: the payload's slide id if that slide exists; otherwise
// the single slide of the payload's case that has no preview yet. Zero or
// several candidates skip the event; a later SlideRegistered may still
// create the link. No placeholder slide is created.
func (e *Engine) applyPreview(ctx context.Context, p domain.PreviewPublishedPayload, ref domain.EventRef) Result {
	var skipReason string

	err := e.tx.RunInTx(ctx, func(ctx context.Context) error {
		target, reason, err := e.resolvePreviewTarget(ctx, p)
		if err != nil {
			return err
		}
		if target == "" {
			skipReason = reason
			return nil
		}

		if err := e.slides.MarkHasPreview(ctx, target, ref); err != nil {
			return fmt.Errorf("mark slide %s: %w", target, err)
		}

		asset := domain.PreviewAsset{
			SlideID:       target,
			CaseID:        strings.TrimSpace(p.CaseID),
			Bucket:        p.Bucket,
			Region:        p.Region,
			Endpoint:      trimOrNil(p.Endpoint),
			BasePrefix:    p.BasePrefix,
			ThumbKey:      p.ThumbKey,
			ManifestKey:   p.ManifestKey,
			TilesPrefix:   p.NormalizedTilesPrefix(),
			MaxLevel:      *p.MaxLevel,
			TileSize:      p.TileSize,
			Format:        p.Format,
			PreviewWidth:  p.PreviewWidth,
			PreviewHeight: p.PreviewHeight,
			CreatedAt:     ref.LastOccurredAt,
			UpdatedAt:     ref.LastOccurredAt,
			EventRef:      ref,
		}
		if err := e.previews.Upsert(ctx, asset); err != nil {
			return fmt.Errorf("upsert preview: %w", err)
		}
		return nil
	})
	if err != nil {
		return failed(err)
	}

	if skipReason != "" {
		return skipped(skipReason)
	}
	return applied()
}

// resolvePreviewTarget returns the slide id to attach the preview to, or ""
// with a reason when there is no unambiguous target.
func (e *Engine) resolvePreviewTarget(ctx context.Context, p domain.PreviewPublishedPayload) (string, string, error) {
	slideID := strings.TrimSpace(p.SlideID)

	_, err := e.slides.GetByID(ctx, slideID)
	switch {
	case err == nil:
		return slideID, "", nil
	case !errors.Is(err, domain.ErrNotFound):
		return "", "", fmt.Errorf("get slide %s: %w", slideID, err)
	}

	caseID := strings.TrimSpace(p.CaseID)
	if caseID == "" {
		return "", fmt.Sprintf("slide %q not found and no case id to fall back on", slideID), nil
	}

	// Two rows are enough to tell "exactly one" from "ambiguous".
	candidates, err := e.slides.ListWithoutPreview(ctx, caseID, 2)
	if err != nil {
		return "", "", fmt.Errorf("list preview candidates for case %s: %w", caseID, err)
	}

	switch len(candidates) {
	case 1:
		e.log.InfoContext(ctx, "preview attached to case slide",
			"payload_slide_id", slideID,
			"resolved_slide_id", candidates[0],
			"case_id", caseID,
		)
		return candidates[0], "", nil
	case 0:
		return "", fmt.Sprintf("slide %q not found and case %q has no slide awaiting a preview", slideID, caseID), nil
	default:
		return "", fmt.Sprintf("slide %q not found and case %q has several slides awaiting a preview", slideID, caseID), nil
	}
}
