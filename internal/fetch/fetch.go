package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultUserAgent identifies hcli to the archive host.
const DefaultUserAgent = "hc-cli"

var printer = message.NewPrinter(language.English)

// maxPrealloc bounds the buffer reserved from a server-reported length.
const maxPrealloc int64 = 1 << 20

// Source is a fully buffered archive.
type Source struct {
	Origin      string
	Data        []byte
	ContentType string
}

// Len returns the archive size in bytes.
func (s *Source) Len() int { return len(s.Data) }

// String renders the source for progress output, e.g. "theme.zip (1,234 bytes)".
func (s *Source) String() string {
	return printer.Sprintf("%s (%d bytes)", s.Origin, s.Len())
}

// Fetcher downloads archives over HTTP or reads them from local paths.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	progress   io.Writer
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithProgress enables download percentage output on w.
func WithProgress(w io.Writer) Option {
	return func(f *Fetcher) {
		f.progress = w
	}
}

// New creates a Fetcher with the given options.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		httpClient: http.DefaultClient,
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the archive at rawURL. HTTP(S) URLs are downloaded;
// file:// URLs and plain paths are read from disk. Either the full body is
// returned or an error, never a partial archive.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Source, error) {
	if path, ok := localPath(rawURL); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &TransportError{URL: rawURL, Err: err}
		}
		return newSource(rawURL, data), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteRejectedError{URL: rawURL, Status: resp.StatusCode}
	}

	data, err := f.readBody(resp)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}

	return newSource(rawURL, data), nil
}

func (f *Fetcher) readBody(resp *http.Response) ([]byte, error) {
	if f.progress == nil || resp.ContentLength <= 0 {
		return io.ReadAll(resp.Body)
	}

	total := resp.ContentLength
	data := make([]byte, 0, min(total, maxPrealloc))
	lastPercent := -1

	buf := make([]byte, 32*1024)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
			percent := int(int64(len(data)) * 100 / total)
			if percent != lastPercent {
				fmt.Fprintf(f.progress, "\rDownloading... %d%%", percent)
				lastPercent = percent
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			fmt.Fprintln(f.progress)
			return nil, readErr
		}
	}
	fmt.Fprintln(f.progress)
	return data, nil
}

func newSource(origin string, data []byte) *Source {
	return &Source{
		Origin:      origin,
		Data:        data,
		ContentType: mimetype.Detect(data).String(),
	}
}

// localPath reports whether rawURL names a file on disk.
func localPath(rawURL string) (string, bool) {
	if strings.HasPrefix(rawURL, "file://") {
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", false
		}
		return u.Path, true
	}
	if strings.Contains(rawURL, "://") {
		return "", false
	}
	return rawURL, true
}
