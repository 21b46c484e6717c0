// Package pagecount determines how many pages a PDF document has, so the
// calculator can be driven by a document instead of a typed number.
package pagecount

import (
    "bytes"
    "context"
    "errors"
    "fmt"
    "io"
    "net/http"
    "os"
    "strings"
    "sync"
    "time"

    "github.com/aws/aws-sdk-go-v2/aws"
    awscfg "github.com/aws/aws-sdk-go-v2/config"
    "github.com/aws/aws-sdk-go-v2/credentials"
    "github.com/aws/aws-sdk-go-v2/feature/s3/manager"
    "github.com/aws/aws-sdk-go-v2/service/s3"
    "github.com/gabriel-vasile/mimetype"
    "github.com/pdfcpu/pdfcpu/pkg/api"
    "github.com/rs/zerolog/log"

    "github.com/local/bookletcalc/internal/metrics"
)

var (
    ErrNotPDF   = errors.New("pagecount: document is not a PDF")
    ErrTooLarge = errors.New("pagecount: document exceeds size limit")
)

const pdfMIME = "application/pdf"

// Downloader fetches S3 objects; *manager.Downloader satisfies it.
type Downloader interface {
    Download(ctx context.Context, w io.WriterAt, input *s3.GetObjectInput, options ...func(*manager.Downloader)) (int64, error)
}

// Options configures a Counter.
type Options struct {
    HTTPClient *http.Client
    // S3 overrides the downloader built from the default AWS config chain.
    S3 Downloader
    Region          string
    AccessKeyID     string
    SecretAccessKey string
    MaxBytes        int64
    // Timeout bounds each remote fetch; <= 0 means 30s.
    Timeout time.Duration
}

// Counter counts pages of local, http(s) and s3 documents.
type Counter struct {
    http     *http.Client
    maxBytes int64
    timeout  time.Duration
    opts     Options

    s3Once sync.Once
    s3     Downloader
    s3Err  error
}

// New returns a Counter. MaxBytes <= 0 means 64MB.
func New(opts Options) *Counter {
    if opts.MaxBytes <= 0 { opts.MaxBytes = 64 << 20 }
    if opts.Timeout <= 0 { opts.Timeout = 30 * time.Second }
    client := opts.HTTPClient
    if client == nil { client = &http.Client{Timeout: opts.Timeout} }
    c := &Counter{http: client, maxBytes: opts.MaxBytes, timeout: opts.Timeout, opts: opts}
    if opts.S3 != nil {
        c.s3 = opts.S3
        c.s3Once.Do(func() {})
    }
    return c
}

// Count returns the number of pages for a PDF referenced by ref.
// Supports:
// - file://path or absolute/relative filesystem paths
// - http(s):// URLs
// - s3://bucket/key
func Count(ctx context.Context, ref string) (int, error) {
    return New(Options{}).Count(ctx, ref)
}

// Count resolves ref and counts its pages.
func (c *Counter) Count(ctx context.Context, ref string) (n int, err error) {
    // Strip optional #page fragment if present
    if i := strings.Index(ref, "#"); i >= 0 {
        ref = ref[:i]
    }
    scheme := schemeOf(ref)
    defer func() { metrics.IncPageCount(scheme, resultLabel(err)) }()

    var data []byte
    if scheme == "s3" || scheme == "http" {
        var cancel context.CancelFunc
        ctx, cancel = context.WithTimeout(ctx, c.timeout)
        defer cancel()
    }
    switch scheme {
    case "s3":
        data, err = c.fetchS3(ctx, ref)
    case "http":
        data, err = c.fetchHTTP(ctx, ref)
    default:
        data, err = c.readFile(strings.TrimPrefix(ref, "file://"))
    }
    if err != nil {
        return 0, err
    }
    n, err = countBytes(data)
    if err != nil {
        return 0, err
    }
    log.Debug().Str("ref", ref).Int("pages", n).Msg("counted document pages")
    return n, nil
}

// CountReader counts the pages of an uploaded document.
func (c *Counter) CountReader(r io.Reader) (n int, err error) {
    defer func() { metrics.IncPageCount("upload", resultLabel(err)) }()
    data, err := readLimited(r, c.maxBytes)
    if err != nil {
        return 0, err
    }
    return countBytes(data)
}

func countBytes(data []byte) (int, error) {
    if mt := mimetype.Detect(data); !mt.Is(pdfMIME) {
        log.Debug().Str("mime", mt.String()).Msg("rejected non-pdf document")
        return 0, ErrNotPDF
    }
    n, err := api.PageCount(bytes.NewReader(data), nil)
    if err != nil {
        return 0, fmt.Errorf("pdf page count failed: %w", err)
    }
    return n, nil
}

func (c *Counter) readFile(path string) ([]byte, error) {
    f, err := os.Open(path)
    if err != nil { return nil, fmt.Errorf("open %s: %w", path, err) }
    defer f.Close()
    return readLimited(f, c.maxBytes)
}

func (c *Counter) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
    if err != nil { return nil, err }
    resp, err := c.http.Do(req)
    if err != nil { return nil, fmt.Errorf("fetch %s: %w", url, err) }
    defer resp.Body.Close()
    if resp.StatusCode != http.StatusOK { return nil, fmt.Errorf("fetch %s: http %d", url, resp.StatusCode) }
    if resp.ContentLength > c.maxBytes { return nil, ErrTooLarge }
    return readLimited(resp.Body, c.maxBytes)
}

func (c *Counter) fetchS3(ctx context.Context, s3url string) ([]byte, error) {
    bucket, key, err := ParseS3URL(s3url)
    if err != nil { return nil, err }
    d, err := c.downloader(ctx)
    if err != nil { return nil, err }

    buf := manager.NewWriteAtBuffer(nil)
    n, err := d.Download(ctx, buf, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
    if err != nil { return nil, fmt.Errorf("s3 download %s: %w", s3url, err) }
    if n > c.maxBytes { return nil, ErrTooLarge }
    log.Info().Str("bucket", bucket).Str("key", key).Int64("bytes", n).Msg("downloaded s3 document")
    return buf.Bytes(), nil
}

func (c *Counter) downloader(ctx context.Context) (Downloader, error) {
    c.s3Once.Do(func() {
        var opts []func(*awscfg.LoadOptions) error
        if c.opts.Region != "" {
            opts = append(opts, awscfg.WithRegion(c.opts.Region))
        }
        if c.opts.AccessKeyID != "" && c.opts.SecretAccessKey != "" {
            opts = append(opts, awscfg.WithCredentialsProvider(
                credentials.NewStaticCredentialsProvider(c.opts.AccessKeyID, c.opts.SecretAccessKey, "")))
        }
        cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
        if err != nil {
            c.s3Err = fmt.Errorf("load aws config: %w", err)
            return
        }
        c.s3 = manager.NewDownloader(s3.NewFromConfig(cfg))
    })
    return c.s3, c.s3Err
}

// ParseS3URL splits s3://bucket/key.
func ParseS3URL(s3url string) (bucket, key string, err error) {
    path := strings.TrimPrefix(s3url, "s3://")
    slash := strings.Index(path, "/")
    if slash <= 0 || slash == len(path)-1 { return "", "", fmt.Errorf("invalid s3 url: %s", s3url) }
    return path[:slash], path[slash+1:], nil
}

func readLimited(r io.Reader, max int64) ([]byte, error) {
    data, err := io.ReadAll(io.LimitReader(r, max+1))
    if err != nil { return nil, err }
    if int64(len(data)) > max { return nil, ErrTooLarge }
    return data, nil
}

func schemeOf(ref string) string {
    switch {
    case strings.HasPrefix(ref, "s3://"):
        return "s3"
    case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
        return "http"
    }
    return "file"
}

func resultLabel(err error) string {
    switch {
    case err == nil:
        return "ok"
    case errors.Is(err, ErrNotPDF):
        return "not_pdf"
    case errors.Is(err, ErrTooLarge):
        return "too_large"
    }
    return "error"
}
