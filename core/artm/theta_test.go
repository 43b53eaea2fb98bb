package artm

import (
	"testing"
)

func TestInitThetaDefault(t *testing.T) {
	batch := CreateTestingBatch()
	config := CreateTestingConfig()
	theta := InitTheta(batch, config, nil, testingRand())

	if theta.Rows() != testingTopics || theta.Cols() != len(batch.Items) {
		t.Errorf("Expecting %dx%d, got %dx%d",
			testingTopics, len(batch.Items), theta.Rows(), theta.Cols())
	}
	if theta.ByRows() {
		t.Errorf("Expecting column-major theta for sparse BOW")
	}
	for d := 0; d < theta.Cols(); d++ {
		for k := 0; k < theta.Rows(); k++ {
			if theta.At(k, d) != 0.5 {
				t.Errorf("Expecting uniform 1/topics, got %f", theta.At(k, d))
			}
		}
	}
}

func TestInitThetaDenseOrientation(t *testing.T) {
	config := CreateTestingConfig()
	config.UseSparseBow = false
	theta := InitTheta(CreateTestingBatch(), config, nil, testingRand())
	if !theta.ByRows() {
		t.Errorf("Expecting row-major theta for dense BOW")
	}
}

func TestInitThetaRandom(t *testing.T) {
	config := CreateTestingConfig()
	config.UseRandomTheta = true
	theta := InitTheta(CreateTestingBatch(), config, nil, testingRand())
	for d := 0; d < theta.Cols(); d++ {
		for k := 0; k < theta.Rows(); k++ {
			v := theta.At(k, d)
			if v < 0 || v >= 1 {
				t.Errorf("Expecting random theta in [0, 1), got %f", v)
			}
		}
	}
}

func TestInitThetaReuseFromCache(t *testing.T) {
	batch := CreateTestingBatch()
	config := CreateTestingConfig()
	config.ReuseTheta = true

	cache := &CacheEntry{
		BatchUUID: "whatever",
		ModelName: config.Name,
		ItemID:    []int{100, 101},
		Theta:     [][]float32{{0.25, 0.75}, {0.9, 0.1}},
	}

	theta := InitTheta(batch, config, cache, testingRand())
	for d, want := range cache.Theta {
		for k := range want {
			if theta.At(k, d) != want[k] {
				t.Errorf("Expecting theta[%d][%d] = %f from cache, got %f",
					k, d, want[k], theta.At(k, d))
			}
		}
	}
}

func TestInitThetaCacheMissFallsBack(t *testing.T) {
	batch := CreateTestingBatch()
	config := CreateTestingConfig()
	config.ReuseTheta = true

	// The cache covers only item 100.
	cache := &CacheEntry{
		ItemID: []int{100},
		Theta:  [][]float32{{0.25, 0.75}},
	}

	theta := InitTheta(batch, config, cache, testingRand())
	if theta.At(0, 0) != 0.25 || theta.At(1, 0) != 0.75 {
		t.Errorf("Expecting item 100 seeded from cache")
	}
	if theta.At(0, 1) != 0.5 || theta.At(1, 1) != 0.5 {
		t.Errorf("Expecting uncached item seeded uniformly")
	}
}

func TestInitThetaIgnoresCacheWithoutReuse(t *testing.T) {
	batch := CreateTestingBatch()
	config := CreateTestingConfig()

	cache := &CacheEntry{
		ItemID: []int{100, 101},
		Theta:  [][]float32{{0.25, 0.75}, {0.9, 0.1}},
	}

	theta := InitTheta(batch, config, cache, testingRand())
	if theta.At(0, 0) != 0.5 {
		t.Errorf("Cache must be ignored when ReuseTheta is off")
	}
}

func TestNewCacheEntryRoundTrip(t *testing.T) {
	batch := CreateTestingBatch()
	config := CreateTestingConfig()
	config.ReuseTheta = true

	theta := InitTheta(batch, config, nil, testingRand())
	theta.Set(0, 0, 0.3)
	theta.Set(1, 0, 0.7)

	entry := NewCacheEntry("uuid-1", config.Name, config.TopicName, batch, theta)
	if entry.BatchUUID != "uuid-1" || entry.ModelName != config.Name {
		t.Errorf("Cache entry key is wrong: %+v", entry)
	}

	reload := InitTheta(batch, config, entry, testingRand())
	for d := 0; d < theta.Cols(); d++ {
		for k := 0; k < theta.Rows(); k++ {
			if reload.At(k, d) != theta.At(k, d) {
				t.Errorf("Expecting exact theta round trip at (%d, %d)", k, d)
			}
		}
	}
}
