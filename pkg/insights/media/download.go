package media

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/cavaliergopher/grab/v3"
	"github.com/mynaparrot/speech-translate/pkg/config"
)

// IsRemote reports whether the audio path is an http(s) url.
func IsRemote(path string) bool {
	u, err := url.Parse(path)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

// Download fetches fileUrl into dir and returns the local file name.
func Download(ctx context.Context, dir, fileUrl string) (string, error) {
	req, err := grab.NewRequest(dir, fileUrl)
	if err != nil {
		return "", fmt.Errorf("%w: %v", config.ErrNotFound, err)
	}
	req = req.WithContext(ctx)

	resp := grab.NewClient().Do(req)
	if err := resp.Err(); err != nil {
		return "", fmt.Errorf("%w: failed to download %s: %v", config.ErrNotFound, fileUrl, err)
	}
	return resp.Filename, nil
}
