package framework

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-version"
	"go.uber.org/zap"

	"ddtest/internal/config"
	"ddtest/internal/domain"
)

// ProgressFunc returns a writer that tracks a download of total bytes.
// total is -1 when the size is unknown.
type ProgressFunc func(total int64) io.Writer

type release struct {
	Name       string  `json:"name"`
	TagName    string  `json:"tag_name"`
	Prerelease bool    `json:"prerelease"`
	Assets     []asset `json:"assets"`
}

type asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

// Installer fetches a framework release and unpacks it into a work directory
type Installer struct {
	client      *http.Client
	releasesURL string
	token       string
	progress    ProgressFunc
	logger      *zap.Logger
}

// NewInstaller creates a new Installer
func NewInstaller(cfg *config.Config, logger *zap.Logger) *Installer {
	return &Installer{
		client:      &http.Client{},
		releasesURL: cfg.ReleasesURL,
		token:       cfg.GitHubToken,
		logger:      logger,
	}
}

// SetProgress sets the download progress reporter
func (i *Installer) SetProgress(progress ProgressFunc) {
	i.progress = progress
}

// Install downloads the requested framework version, or the highest stable
// release when requested is empty, and extracts it below workDir.
func (i *Installer) Install(ctx context.Context, workDir, requested string) (Framework, error) {
	var want *version.Version
	if requested != "" {
		v, err := version.NewVersion(requested)
		if err != nil {
			return Framework{}, domain.NewConfigurationError("invalid library version %q: %v", requested, err)
		}
		want = v
	}

	releases, err := i.listReleases(ctx)
	if err != nil {
		return Framework{}, &domain.ArtifactFetchError{URL: i.releasesURL, Err: err}
	}

	chosen, v, err := selectRelease(releases, want)
	if err != nil {
		return Framework{}, &domain.ArtifactFetchError{URL: i.releasesURL, Err: err}
	}
	dl := chosen.Assets[0]
	i.logger.Info("Selected testing framework",
		zap.String("version", v.String()),
		zap.String("asset", dl.Name),
		zap.String("size", humanize.Bytes(uint64(max(dl.Size, 0)))))

	fw := Framework{
		Version: v.String(),
		Archive: filepath.Join(workDir, archiveName),
		Root:    filepath.Join(workDir, extractDir),
	}
	if err := i.download(ctx, dl.BrowserDownloadURL, fw.Archive); err != nil {
		return Framework{}, &domain.ArtifactFetchError{URL: dl.BrowserDownloadURL, Err: err}
	}
	if err := Unzip(fw.Archive, fw.Root); err != nil {
		return Framework{}, &domain.ArtifactFetchError{URL: dl.BrowserDownloadURL, Err: fmt.Errorf("extract: %w", err)}
	}
	if _, err := os.Stat(fw.XCFrameworkPath()); err != nil {
		return Framework{}, &domain.ArtifactFetchError{URL: dl.BrowserDownloadURL, Err: fmt.Errorf("archive has no %s.xcframework", Name)}
	}
	return fw, nil
}

// selectRelease picks the exact version when want is set, otherwise the
// highest non-prerelease. Releases with unparseable names or no assets are
// skipped.
func selectRelease(releases []release, want *version.Version) (release, *version.Version, error) {
	var best release
	var bestVersion *version.Version

	for _, r := range releases {
		if len(r.Assets) == 0 {
			continue
		}
		v, err := releaseVersion(r)
		if err != nil {
			continue
		}
		if want != nil {
			if v.Equal(want) {
				return r, v, nil
			}
			continue
		}
		if r.Prerelease || v.Prerelease() != "" {
			continue
		}
		if bestVersion == nil || v.GreaterThan(bestVersion) {
			best, bestVersion = r, v
		}
	}

	if want != nil {
		return release{}, nil, fmt.Errorf("no release %s with assets", want)
	}
	if bestVersion == nil {
		return release{}, nil, errors.New("no stable release with assets")
	}
	return best, bestVersion, nil
}

func releaseVersion(r release) (*version.Version, error) {
	if v, err := version.NewVersion(r.Name); err == nil {
		return v, nil
	}
	return version.NewVersion(r.TagName)
}

func (i *Installer) listReleases(ctx context.Context) ([]release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.releasesURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if i.token != "" {
		req.Header.Set("Authorization", "Bearer "+i.token)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var releases []release
	if err := json.NewDecoder(resp.Body).Decode(&releases); err != nil {
		return nil, fmt.Errorf("decode releases: %w", err)
	}
	return releases, nil
}

func (i *Installer) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	var w io.Writer = out
	if i.progress != nil {
		w = io.MultiWriter(out, i.progress(resp.ContentLength))
	}
	n, err := io.Copy(w, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("download %s: %w", filepath.Base(dest), err)
	}
	i.logger.Debug("Downloaded testing framework", zap.String("path", dest), zap.String("size", humanize.Bytes(uint64(n))))
	return nil
}
