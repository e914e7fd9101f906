package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/eksgraph/internal/config"
	"github.com/imamik/eksgraph/internal/graph"
	"github.com/imamik/eksgraph/internal/manifests"
	"github.com/imamik/eksgraph/internal/platform/s3"
	"github.com/imamik/eksgraph/internal/provider"
	"github.com/imamik/eksgraph/internal/provisioning"
	"github.com/imamik/eksgraph/internal/provisioning/compose"
	"github.com/imamik/eksgraph/internal/util/async"
)

// ComposeOptions are the compose command inputs.
type ComposeOptions struct {
	Parameters ParameterSource
	// ServiceAccountsPath receives the ServiceAccount manifests. "-" writes
	// them to the command output.
	ServiceAccountsPath string
	MetricsTextfile     string
	Publish             PublishOptions
}

// PublishOptions configure output publishing. An empty bucket disables it.
type PublishOptions struct {
	Bucket   string
	Prefix   string
	Endpoint string
}

var (
	// newProvider creates the Resource Provider for a composition.
	newProvider = func(params *config.Parameters) provider.Provider {
		return provider.NewSimulator(provider.SimulatorConfig{
			Partition: params.Partition,
			Region:    params.Region,
			AccountID: params.AccountID,
			Namespace: params.StackName,
		})
	}

	// newOutputStore creates the object store outputs are published to.
	newOutputStore = func(ctx context.Context, opts s3.Options) (s3.Store, error) {
		client, err := s3.NewClient(ctx, opts)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	// writeFile writes data to a file (for testing injection).
	writeFile = os.WriteFile

	// writeMetrics dumps a registry in the text exposition format.
	writeMetrics = prometheus.WriteToTextfile
)

// Compose materializes the stack and prints its outputs.
func Compose(ctx context.Context, out io.Writer, opts ComposeOptions) error {
	log := logr.FromContextOrDiscard(ctx)

	params, err := loadParameters(ctx, opts.Parameters)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	composer := &compose.Composer{
		Provider: newProvider(params),
		Observer: provisioning.NewLogObserver(log),
		Metrics:  provisioning.NewMetrics(reg),
	}

	log.Info("composing stack", "stack", params.StackName, "cluster", params.ClusterIdentifier)
	res, composeErr := composer.Compose(ctx, params)

	if opts.MetricsTextfile != "" {
		if err := writeMetrics(opts.MetricsTextfile, reg); err != nil {
			return errors.Join(composeErr, fmt.Errorf("failed to write metrics: %w", err))
		}
	}

	st := newStyles(out)
	if composeErr != nil {
		fmt.Fprint(out, renderFailure(st, res, composeErr))
		return fmt.Errorf("composition failed: %w", composeErr)
	}
	fmt.Fprint(out, renderOutputs(st, params, res))

	var (
		tasks        []async.Task
		manifestData []byte
		publishedKey string
	)
	if opts.ServiceAccountsPath != "" {
		tasks = append(tasks, async.Task{Name: "service accounts", Func: func(context.Context) error {
			data, err := writeServiceAccounts(opts.ServiceAccountsPath, res)
			manifestData = data
			return err
		}})
	}
	if opts.Publish.Bucket != "" {
		tasks = append(tasks, async.Task{Name: "publish", Func: func(ctx context.Context) error {
			key, err := publishOutputs(ctx, params, opts.Publish, res.Outputs)
			publishedKey = key
			return err
		}})
	}
	if err := async.RunParallel(ctx, tasks); err != nil {
		return err
	}

	if opts.ServiceAccountsPath == "-" {
		if _, err := out.Write(manifestData); err != nil {
			return err
		}
	}
	if publishedKey != "" {
		fmt.Fprintf(out, "\nOutputs published to s3://%s/%s\n", opts.Publish.Bucket, publishedKey)
	}
	return nil
}

// writeServiceAccounts renders the manifests and writes them to path
// unless path is "-", in which case the caller prints them.
func writeServiceAccounts(path string, res *compose.Result) ([]byte, error) {
	data, err := manifests.Render(res.ServiceAccounts)
	if err != nil {
		return nil, err
	}
	if path == "-" {
		return data, nil
	}
	if err := writeFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write service accounts: %w", err)
	}
	return data, nil
}

func publishOutputs(ctx context.Context, params *config.Parameters, opts PublishOptions, outputs []graph.OutputExport) (string, error) {
	store, err := newOutputStore(ctx, s3.Options{Region: params.Region, Endpoint: opts.Endpoint})
	if err != nil {
		return "", fmt.Errorf("failed to create S3 client: %w", err)
	}
	tun := config.LoadTunables()
	publisher := &s3.Publisher{
		Store:        store,
		Bucket:       opts.Bucket,
		Prefix:       opts.Prefix,
		Log:          logr.FromContextOrDiscard(ctx).WithName("publisher"),
		MaxAttempts:  tun.PublishMaxAttempts,
		InitialDelay: tun.PublishInitialDelay,
	}
	return publisher.Publish(ctx, params.StackName, params.ClusterIdentifier, outputs)
}
