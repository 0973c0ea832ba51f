// Package share implements the share actions: a social SDK path with a
// clipboard fallback, and link copying for the stock deep link.
package share

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"goksori/internal/dashboard"
	"goksori/pkg/goksori"
)

// Toast messages.
const (
	MsgTextCopied = "📋 공유 텍스트가 복사되었습니다!"
	MsgLinkCopied = "🔗 링크가 복사되었습니다!"
	MsgSent       = "💬 카카오톡으로 보냈습니다!"
	MsgFailed     = "공유 실패. 링크를 직접 복사해주세요."
)

// PayloadSource fetches the backend-prepared share payload.
type PayloadSource interface {
	GetShare(ctx context.Context, code string) (*goksori.SharePayload, error)
}

// SDK is a social share integration.
type SDK interface {
	Init(ctx context.Context) error
	Share(ctx context.Context, s goksori.KakaoShare) error
}

// Clipboard writes plain text to the user's clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// Adapter chooses between the SDK and the clipboard for each share action.
type Adapter struct {
	src     PayloadSource
	sdk     SDK
	clip    Clipboard
	siteURL string
	log     *slog.Logger

	once  sync.Once
	ready atomic.Bool
}

// NewAdapter creates an Adapter. sdk may be nil, in which case every share
// goes to the clipboard.
func NewAdapter(src PayloadSource, sdk SDK, clip Clipboard, siteURL string, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{src: src, sdk: sdk, clip: clip, siteURL: siteURL, log: logger}
}

// Init initializes the SDK at most once and reports whether it is usable.
// A failed initialization selects the clipboard path for the rest of the
// process; later calls do not retry.
func (a *Adapter) Init(ctx context.Context) bool {
	a.once.Do(func() {
		if a.sdk == nil {
			return
		}
		if err := a.sdk.Init(ctx); err != nil {
			a.log.Warn("social sdk init failed, using clipboard", "error", err)
			return
		}
		a.ready.Store(true)
		a.log.Info("social sdk initialized")
	})
	return a.ready.Load()
}

// Ready reports whether shares go through the SDK.
func (a *Adapter) Ready() bool { return a.ready.Load() }

// ShareStock shares the payload of code and returns the toast to show. The
// error is for logging only; the message already describes the failure.
func (a *Adapter) ShareStock(ctx context.Context, code string) (string, error) {
	p, err := a.src.GetShare(ctx, code)
	if err != nil {
		return MsgFailed, err
	}

	if a.ready.Load() {
		if err := a.sdk.Share(ctx, p.KakaoShare); err != nil {
			return MsgFailed, fmt.Errorf("sdk share %s: %w", code, err)
		}
		return MsgSent, nil
	}

	if err := a.clip.WriteText(p.ShareText); err != nil {
		return MsgFailed, fmt.Errorf("clipboard %s: %w", code, err)
	}
	return MsgTextCopied, nil
}

// ShareLink copies the deep link of code.
func (a *Adapter) ShareLink(code string) (string, error) {
	if err := a.clip.WriteText(dashboard.StockURL(a.siteURL, code)); err != nil {
		return MsgFailed, fmt.Errorf("clipboard link %s: %w", code, err)
	}
	return MsgLinkCopied, nil
}
