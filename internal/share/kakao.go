package share

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"goksori/pkg/goksori"
)

const (
	kakaoAPIBase   = "https://kapi.kakao.com"
	kakaoTokenPath = "/v1/user/access_token_info"
	kakaoMemoPath  = "/v2/api/talk/memo/default/send"
)

// ErrNoToken is returned by KakaoSDK.Init when no access token is set.
var ErrNoToken = errors.New("kakao: no access token")

// KakaoSDK shares through the Kakao REST "send to me" memo API.
type KakaoSDK struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewKakaoSDK creates a Kakao client using a user access token.
func NewKakaoSDK(token string) *KakaoSDK {
	return &KakaoSDK{
		baseURL:    kakaoAPIBase,
		token:      strings.TrimSpace(token),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Init validates the access token.
func (k *KakaoSDK) Init(ctx context.Context) error {
	if k.token == "" {
		return ErrNoToken
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.baseURL+kakaoTokenPath, nil)
	if err != nil {
		return err
	}
	return k.do(req, "token info")
}

// Share sends s as a feed template with a single detail button.
func (k *KakaoSDK) Share(ctx context.Context, s goksori.KakaoShare) error {
	tmpl, err := json.Marshal(feedTemplate(s))
	if err != nil {
		return fmt.Errorf("kakao: encoding template: %w", err)
	}
	form := url.Values{"template_object": {string(tmpl)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.baseURL+kakaoMemoPath, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")
	return k.do(req, "memo send")
}

func (k *KakaoSDK) do(req *http.Request, op string) error {
	req.Header.Set("Authorization", "Bearer "+k.token)
	resp, err := k.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("kakao %s: %w", op, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("kakao %s: status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

type kakaoLink struct {
	WebURL       string `json:"web_url"`
	MobileWebURL string `json:"mobile_web_url"`
}

type kakaoContent struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	Link        kakaoLink `json:"link"`
}

type kakaoButton struct {
	Title string    `json:"title"`
	Link  kakaoLink `json:"link"`
}

type kakaoFeed struct {
	ObjectType string        `json:"object_type"`
	Content    kakaoContent  `json:"content"`
	Buttons    []kakaoButton `json:"buttons"`
}

func feedTemplate(s goksori.KakaoShare) kakaoFeed {
	link := kakaoLink{WebURL: s.LinkURL, MobileWebURL: s.LinkURL}
	return kakaoFeed{
		ObjectType: "feed",
		Content: kakaoContent{
			Title:       s.Title,
			Description: s.Description,
			ImageURL:    s.ImageURL,
			Link:        link,
		},
		Buttons: []kakaoButton{{Title: "상세보기", Link: link}},
	}
}
