package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mirado/clinic-console-api/internal/models"
)

// MaxImageBytes is the upload size ceiling, checked before any network call.
const MaxImageBytes = 5 << 20 // 5MB

// ImageHostService uploads images to the external host. The host keeps the
// binary forever (its free tier has no delete endpoint); we only track refs.
type ImageHostService struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewImageHostService(baseURL, apiKey string) *ImageHostService {
	return &ImageHostService{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{},
	}
}

// hostResponse mirrors the host's upload envelope.
type hostResponse struct {
	Data struct {
		ID         string `json:"id"`
		URL        string `json:"url"`
		DisplayURL string `json:"display_url"`
		DeleteURL  string `json:"delete_url"`
		Thumb      struct {
			URL string `json:"url"`
		} `json:"thumb"`
		Medium struct {
			URL string `json:"url"`
		} `json:"medium"`
	} `json:"data"`
	Success bool `json:"success"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload base64-encodes the file and posts it as multipart form data to the
// host, mapping the JSON response into an ImageRef. Size and type checks are
// the caller's job; Upload assumes data is already validated.
func (s *ImageHostService) Upload(ctx context.Context, filename string, data []byte) (models.ImageRef, error) {
	encoded := base64.StdEncoding.EncodeToString(data)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("image", encoded); err != nil {
		return models.ImageRef{}, err
	}
	if err := writer.WriteField("name", filename); err != nil {
		return models.ImageRef{}, err
	}
	if err := writer.Close(); err != nil {
		return models.ImageRef{}, err
	}

	url := fmt.Sprintf("%s/1/upload?key=%s", s.BaseURL, s.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return models.ImageRef{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.Client.Do(req)
	if err != nil {
		return models.ImageRef{}, err
	}
	defer resp.Body.Close()

	var hostResp hostResponse
	if err := json.NewDecoder(resp.Body).Decode(&hostResp); err != nil {
		return models.ImageRef{}, errors.New("image host returned an unreadable response")
	}

	if resp.StatusCode != http.StatusOK || !hostResp.Success {
		// Surface whatever the host said, or a generic fallback.
		if hostResp.Error.Message != "" {
			return models.ImageRef{}, errors.New(hostResp.Error.Message)
		}
		return models.ImageRef{}, errors.New("image upload failed")
	}

	imageID := hostResp.Data.ID
	if imageID == "" {
		imageID = uuid.NewString()
	}

	return models.ImageRef{
		URL:        hostResp.Data.URL,
		DisplayURL: hostResp.Data.DisplayURL,
		ThumbURL:   hostResp.Data.Thumb.URL,
		MediumURL:  hostResp.Data.Medium.URL,
		DeleteURL:  hostResp.Data.DeleteURL,
		ImageID:    imageID,
		UploadedAt: time.Now().UTC(),
		Filename:   filename,
	}, nil
}
