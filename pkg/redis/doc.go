// Package redis connects go-redis clients with retries and exposes a small
// namespaced key/value Storage plus a readiness Healthcheck.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	store := redis.NewStorage(client, cfg.KeyPrefix)
//	err = store.Set(ctx, "prefs:u1", data, 10*time.Minute)
package redis
