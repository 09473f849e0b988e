package oss

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"roomclean/common"
	"roomclean/internal/utils"

	"github.com/google/uuid"
)

// 签名 URL 有效期：7 天
const signedURLExpiry = 3600 * 24 * 7

// Publisher 将本地结果文件上传到 OSS
type Publisher struct {
	client OSSIface
	bucket string
	prefix string
	now    func() time.Time
}

// NewPublisher 创建结果上传器
func NewPublisher(client OSSIface, bucket, prefix string) *Publisher {
	return &Publisher{
		client: client,
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
	}
}

// NewPublisherFromConfig 从配置创建结果上传器，未配置 OSS_BUCKET 时返回 nil
func NewPublisherFromConfig(cfg *common.Config) (*Publisher, error) {
	if !cfg.OSSEnabled() {
		return nil, nil
	}

	client, err := NewS3Client(S3Config{
		Endpoint:  cfg.OSSEndpoint,
		Region:    cfg.OSSRegion,
		AccessKey: cfg.OSSAccessKey,
		SecretKey: cfg.OSSSecretKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create OSS client: %w", err)
	}
	return NewPublisher(client, cfg.OSSBucket, cfg.OSSPrefix), nil
}

// PublishFile 上传本地文件并返回带签名的访问 URL
func (p *Publisher) PublishFile(ctx context.Context, localPath, contentType string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", localPath, err)
	}

	key := p.objectKey(localPath, contentType)
	if _, err := p.client.UploadFile(ctx, p.bucket, key, bytes.NewReader(data), contentType); err != nil {
		return "", err
	}

	url, err := p.client.GetSignedURL(ctx, p.bucket, key, signedURLExpiry)
	if err != nil {
		return "", err
	}

	common.WithFields(map[string]interface{}{
		"local_path": localPath,
		"bucket":     p.bucket,
		"key":        key,
	}).Info("Result published to OSS")
	return url, nil
}

// objectKey 生成对象路径：{prefix}yyyy-MM-dd/{uuid}_{name}{ext}
func (p *Publisher) objectKey(localPath, contentType string) string {
	base := filepath.Base(localPath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	if ext == "" {
		ext = utils.GetExtensionFromMimeType(contentType)
	}
	return fmt.Sprintf("%s%s/%s_%s%s", p.prefix, p.now().Format("2006-01-02"), uuid.New().String(), name, ext)
}
