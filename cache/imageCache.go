package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ImageCache struct {
	cli    *redis.Client
	logger *logrus.Logger
	tracer trace.Tracer
}

// Construct Redis client
func New(host, port string, logger *logrus.Logger, tracer trace.Tracer) (*ImageCache, error) {
	redisAddress := fmt.Sprintf("%s:%s", host, port)

	client := redis.NewClient(&redis.Options{
		Addr: redisAddress,
	})

	return &ImageCache{
		cli:    client,
		logger: logger,
		tracer: tracer,
	}, nil
}

// Check connection function
func (pc *ImageCache) Ping() {
	val, _ := pc.cli.Ping().Result()
	pc.logger.Println(val)
}

// Set key-value pair with default expiration
func (pc *ImageCache) Post(ctx context.Context, ownerUid string, imageName string, image []byte) error {
	ctx, span := pc.tracer.Start(ctx, "ImageCache.Post")
	defer span.End()

	err := pc.cli.Set(constructKey(ownerUid, imageName), image, 30*time.Minute).Err()
	if err == nil {
		pc.logger.Println("Cache hit - set image")
	}
	return err
}

// Get value by key
func (pc *ImageCache) Get(ctx context.Context, ownerUid string, imageName string) ([]byte, error) {
	ctx, span := pc.tracer.Start(ctx, "ImageCache.Get")
	defer span.End()

	value, err := pc.cli.Get(constructKey(ownerUid, imageName)).Bytes()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		pc.logger.Println(err)
		return nil, err
	}

	pc.logger.Println("Cache hit - get image")
	return value, nil
}

// Check if given key exists
func (pc *ImageCache) Exists(ownerUid string, imageName string) bool {
	cnt, err := pc.cli.Exists(constructKey(ownerUid, imageName)).Result()
	if cnt == 1 {
		return true
	}
	if err != nil {
		return false
	}
	return false
}
