package handlers

import (
	"context"
	"testing"

	"github.com/imamik/eksgraph/internal/platform/sts"
)

var requiredSets = []string{
	"clusterIdentifier=posit",
	"databaseName=positdb",
	"databaseUsername=posit",
	"accountId=111122223333",
	"region=us-east-2",
}

func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origLoadParameterFile := loadParameterFile
	origBuildParameters := buildParameters
	origNewCallerResolver := newCallerResolver
	origNewProvider := newProvider
	origNewOutputStore := newOutputStore
	origWriteFile := writeFile
	origWriteMetrics := writeMetrics

	t.Cleanup(func() {
		loadParameterFile = origLoadParameterFile
		buildParameters = origBuildParameters
		newCallerResolver = origNewCallerResolver
		newProvider = origNewProvider
		newOutputStore = origNewOutputStore
		writeFile = origWriteFile
		writeMetrics = origWriteMetrics
	})
}

type fakeResolver struct {
	identity *sts.Identity
	err      error
	calls    int
}

func (f *fakeResolver) CallerIdentity(context.Context) (*sts.Identity, error) {
	f.calls++
	return f.identity, f.err
}

type fakeStore struct {
	bucket string
	key    string
	data   []byte
}

func (f *fakeStore) BucketExists(_ context.Context, bucket string) (bool, error) {
	f.bucket = bucket
	return true, nil
}

func (f *fakeStore) PutObject(_ context.Context, _, key, _ string, data []byte) error {
	f.key = key
	f.data = data
	return nil
}
