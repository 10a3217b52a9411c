// Package redis connects the platform to Redis with startup retry and
// liveness probing. The tenant package's directory cache is the primary
// consumer: a shared Redis cache keeps tenant lookups warm across all
// instances of the platform.
//
// Configuration comes from the environment via the config package:
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//	client, err := redis.Connect(ctx, cfg)
package redis
