package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"smoothie-order/config"
	"smoothie-order/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// NewS3Client erstellt einen S3-Client für den Beleg-Bucket. Ohne RECEIPT_S3_URL
// wird der Standard-Endpunkt von AWS verwendet.
func NewS3Client(cfg *config.Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.ReceiptS3Region),
	}
	if cfg.ReceiptS3Key != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.ReceiptS3Key, cfg.ReceiptS3Secret, "")))
	}
	if cfg.ReceiptS3URL != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL:               cfg.ReceiptS3URL,
					SigningRegion:     cfg.ReceiptS3Region,
					HostnameImmutable: true,
				}, nil
			},
		)
		opts = append(opts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(), opts...)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg), nil
}

// objectPutter ist der Teil des S3-Clients, den das Archiv braucht.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Receipt ist der Inhalt eines abgelegten Bestellbelegs.
type Receipt struct {
	NameOnOrder string    `json:"name_on_order"`
	Ingredients string    `json:"ingredients"`
	OrderedAt   time.Time `json:"ordered_at"`
}

// ReceiptArchive legt Bestellbelege als JSON-Objekte im Bucket ab.
type ReceiptArchive struct {
	client objectPutter
	bucket string
	now    func() time.Time
}

// NewReceiptArchive erstellt ein Archiv für bucket.
func NewReceiptArchive(client *s3.Client, bucket string) *ReceiptArchive {
	return &ReceiptArchive{client: client, bucket: bucket, now: time.Now}
}

// Archive lädt den Beleg hoch und gibt den Objekt-Key zurück.
func (a *ReceiptArchive) Archive(ctx context.Context, order models.Order) (string, error) {
	ts := a.now().UTC()
	body, err := json.Marshal(Receipt{
		NameOnOrder: order.NameOnOrder,
		Ingredients: order.Ingredients,
		OrderedAt:   ts,
	})
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("receipts/%s/%d-%s.json", ts.Format("2006/01/02"), ts.UnixNano(), uuid.NewString())
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("put receipt %s: %w", key, err)
	}
	return key, nil
}
