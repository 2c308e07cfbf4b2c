// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/test/api", "200"))

	RecordAPIRequest("GET", "/test/api", "200", 15*time.Millisecond)
	RecordAPIRequest("GET", "/test/api", "200", 25*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/test/api", "200"))
	if after-before != 2 {
		t.Errorf("api_requests_total delta = %v, want 2", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			TrackActiveRequest(true)
			TrackActiveRequest(false)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("api_active_requests = %v, want %v after balanced inc/dec", got, before)
	}
}

func TestRecordStrategy(t *testing.T) {
	errBefore := testutil.ToFloat64(StrategyErrors.WithLabelValues("test-strategy"))

	RecordStrategy("test-strategy", time.Millisecond, nil)
	RecordStrategy("test-strategy", time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(StrategyErrors.WithLabelValues("test-strategy")) - errBefore; got != 1 {
		t.Errorf("strategy errors delta = %v, want 1", got)
	}
}

func TestRecordRecommendation(t *testing.T) {
	before := testutil.ToFloat64(RecommendationRequests.WithLabelValues("popular-guest", "true"))
	RecordRecommendation("popular-guest", true)
	if got := testutil.ToFloat64(RecommendationRequests.WithLabelValues("popular-guest", "true")) - before; got != 1 {
		t.Errorf("recommendation_requests_total delta = %v, want 1", got)
	}
}

func TestRecordEventPublish(t *testing.T) {
	okBefore := testutil.ToFloat64(EventsPublished.WithLabelValues("success"))
	errBefore := testutil.ToFloat64(EventsPublished.WithLabelValues("error"))

	RecordEventPublish(nil)
	RecordEventPublish(errors.New("nats down"))

	if got := testutil.ToFloat64(EventsPublished.WithLabelValues("success")) - okBefore; got != 1 {
		t.Errorf("success delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(EventsPublished.WithLabelValues("error")) - errBefore; got != 1 {
		t.Errorf("error delta = %v, want 1", got)
	}
}

func TestRecordStoreQuery(t *testing.T) {
	before := testutil.ToFloat64(StoreQueryErrors.WithLabelValues("test", "find_items"))
	RecordStoreQuery("test", "find_items", time.Millisecond, nil)
	RecordStoreQuery("test", "find_items", time.Millisecond, errors.New("closed"))
	if got := testutil.ToFloat64(StoreQueryErrors.WithLabelValues("test", "find_items")) - before; got != 1 {
		t.Errorf("store_query_errors_total delta = %v, want 1", got)
	}
}
