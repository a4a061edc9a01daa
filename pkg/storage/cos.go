package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tencentyun/cos-go-sdk-v5"

	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/util"
)

type COSStore struct {
	client    *cos.Client
	bucketURL string
}

func NewCOSStore() (*COSStore, error) {
	raw := util.GetEnv("COS_BUCKET_URL")
	if raw == "" {
		return nil, fmt.Errorf("COS_BUCKET_URL not set")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse COS_BUCKET_URL: %w", err)
	}
	client := cos.NewClient(&cos.BaseURL{BucketURL: u}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  util.GetEnv("COS_SECRET_ID"),
			SecretKey: util.GetEnv("COS_SECRET_KEY"),
		},
	})
	return &COSStore{client: client, bucketURL: raw}, nil
}

func (c *COSStore) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	opt := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType:   contentType,
			ContentLength: size,
		},
	}
	if _, err := c.client.Object.Put(ctx, key, r, opt); err != nil {
		return "", err
	}
	return c.bucketURL + "/" + key, nil
}

func (c *COSStore) Read(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	resp, err := c.client.Object.Get(ctx, key, nil)
	if err != nil {
		return nil, 0, err
	}
	return resp.Body, resp.ContentLength, nil
}

func (c *COSStore) Delete(ctx context.Context, key string) error {
	_, err := c.client.Object.Delete(ctx, key)
	return err
}
