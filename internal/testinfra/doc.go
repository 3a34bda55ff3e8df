// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

// Package testinfra provides container helpers for integration tests.
//
// Integration tests are guarded by the "integration" build tag and are skipped
// when Docker is not reachable:
//
//	func TestRedisCrossingStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    redis, err := testinfra.NewRedisContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, redis)
//
//	    store := geofence.NewRedisCrossingStore(redis.Client(), "test:", time.Hour)
//	    // ...
//	}
//
// First runs pull the container image; later runs use the local cache.
package testinfra
