package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/mynaparrot/speech-translate/pkg/config"
	"github.com/sirupsen/logrus"
)

// AudioSource is a local WAV file ready to be handed to a speech provider.
// Close removes any temporary file created while preparing it.
type AudioSource struct {
	Path string
	Info *AudioInfo

	tmpDir string
}

func (s *AudioSource) Close() error {
	if s.tmpDir == "" {
		return nil
	}
	return os.RemoveAll(s.tmpDir)
}

// PrepareAudio validates audioPath and turns it into a local WAV file.
// Remote inputs are downloaded first and raw .pcm/.raw input is wrapped into a
// WAV container. Missing input is ErrNotFound, anything else that isn't WAV is
// ErrUnsupportedAudio.
func PrepareAudio(ctx context.Context, audioPath string, settings config.DownloadSettings, log *logrus.Entry) (*AudioSource, error) {
	src := new(AudioSource)
	local := audioPath

	if IsRemote(audioPath) {
		dir, err := os.MkdirTemp(settings.Dir, "speech-translate-*")
		if err != nil {
			return nil, err
		}
		src.tmpDir = dir

		dctx, cancel := context.WithTimeout(ctx, settings.Timeout)
		defer cancel()

		log.WithField("url", audioPath).Infoln("downloading audio")
		local, err = Download(dctx, dir, audioPath)
		if err != nil {
			_ = src.Close()
			return nil, err
		}
	}

	st, err := os.Stat(local)
	if err != nil || !st.Mode().IsRegular() {
		_ = src.Close()
		return nil, fmt.Errorf("%w: %s", config.ErrNotFound, audioPath)
	}

	mType, err := mimetype.DetectFile(local)
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("%w: %s", config.ErrNotFound, audioPath)
	}

	switch {
	case mType.Is("audio/wav"):
	case isRawPCM(local):
		if src.tmpDir == "" {
			if src.tmpDir, err = os.MkdirTemp(settings.Dir, "speech-translate-*"); err != nil {
				return nil, err
			}
		}
		log.WithField("file", local).Debugln("wrapping raw pcm into wav")
		local, err = wrapPCM(local, src.tmpDir)
		if err != nil {
			_ = src.Close()
			return nil, err
		}
	default:
		_ = src.Close()
		return nil, fmt.Errorf("%w: %s detected as %s", config.ErrUnsupportedAudio, audioPath, mType.String())
	}

	info, err := ProbeWAV(local)
	if err != nil {
		_ = src.Close()
		return nil, err
	}
	src.Path = local
	src.Info = info

	return src, nil
}

func isRawPCM(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pcm", ".raw":
		return true
	}
	return false
}

func wrapPCM(path, dir string) (string, error) {
	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", config.ErrNotFound, path)
	}
	defer in.Close()

	dst := filepath.Join(dir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+".wav")
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}

	w, err := NewWAVWriter(out, DefaultPCMSampleRate, DefaultPCMChannels)
	if err != nil {
		_ = out.Close()
		return "", err
	}
	if _, err = io.Copy(w, in); err != nil {
		_ = w.Close()
		return "", err
	}
	if err = w.Close(); err != nil {
		return "", err
	}
	return dst, nil
}
