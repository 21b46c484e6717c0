package statuscheck

import (
    "context"
    "errors"
    "time"

    "github.com/aws/aws-sdk-go-v2/aws"
    awscfg "github.com/aws/aws-sdk-go-v2/config"
    "github.com/aws/aws-sdk-go-v2/credentials"
    "github.com/aws/aws-sdk-go-v2/service/s3"
)

// RedisPinger models the minimal Redis capability we need for status checks.
type RedisPinger interface {
    Ping(ctx context.Context) error
}

// BucketHeader is the S3 call used to probe bucket access.
type BucketHeader interface {
    HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Checker aggregates health checks for the optional dependencies.
type Checker struct {
    redis    RedisPinger
    s3Bucket string
    s3       BucketHeader
    opts     Options
}

// Options configures the Checker.
type Options struct {
    Redis           RedisPinger
    S3Bucket        string
    S3              BucketHeader
    Region          string
    AccessKeyID     string
    SecretAccessKey string
}

// Status represents the readiness of a subsystem.
type Status struct {
    OK      bool   `json:"ok"`
    Message string `json:"message"`
}

// Summary bundles all subsystem statuses.
type Summary struct {
    Calculator Status `json:"calculator"`
    History    Status `json:"history"`
    S3         Status `json:"s3"`
}

// New creates a new Checker with the provided options.
func New(opts Options) *Checker {
    return &Checker{redis: opts.Redis, s3Bucket: opts.S3Bucket, s3: opts.S3, opts: opts}
}

// Summary returns the current status snapshot.
func (c *Checker) Summary(ctx context.Context) Summary {
    return Summary{
        Calculator: Status{OK: true, Message: "Available"},
        History:    c.checkRedis(ctx),
        S3:         c.checkS3(ctx),
    }
}

func (c *Checker) checkRedis(ctx context.Context) Status {
    if c.redis == nil {
        return Status{OK: false, Message: "Disabled"}
    }
    ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
    defer cancel()
    if err := c.redis.Ping(ctx); err != nil {
        return Status{OK: false, Message: trimError(err)}
    }
    return Status{OK: true, Message: "Connected"}
}

func (c *Checker) checkS3(ctx context.Context) Status {
    if c.s3Bucket == "" {
        return Status{OK: false, Message: "Bucket not configured"}
    }
    ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
    defer cancel()
    cli := c.s3
    if cli == nil {
        var loadOpts []func(*awscfg.LoadOptions) error
        if c.opts.Region != "" {
            loadOpts = append(loadOpts, awscfg.WithRegion(c.opts.Region))
        }
        if c.opts.AccessKeyID != "" && c.opts.SecretAccessKey != "" {
            loadOpts = append(loadOpts, awscfg.WithCredentialsProvider(
                credentials.NewStaticCredentialsProvider(c.opts.AccessKeyID, c.opts.SecretAccessKey, "")))
        }
        cfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
        if err != nil {
            return Status{OK: false, Message: trimError(err)}
        }
        cli = s3.NewFromConfig(cfg)
    }
    if _, err := cli.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.s3Bucket)}); err != nil {
        return Status{OK: false, Message: trimError(err)}
    }
    return Status{OK: true, Message: "Connected"}
}

func trimError(err error) string {
    if err == nil {
        return ""
    }
    var netErr interface{ Timeout() bool }
    if errors.As(err, &netErr) && netErr.Timeout() {
        return "timeout"
    }
    if errors.Is(err, context.DeadlineExceeded) {
        return "timeout"
    }
    msg := err.Error()
    if len(msg) > 120 {
        return msg[:120]
    }
    return msg
}
