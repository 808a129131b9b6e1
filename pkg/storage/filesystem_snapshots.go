package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/felixgeelhaar/fortify/retry"
	"gopkg.in/yaml.v3"

	"github.com/jalvemo/planera/pkg/domain/directory"
	"github.com/jalvemo/planera/pkg/domain/workorder"
)

// The directory and order services are external collaborators; planera
// works against cached snapshots of their answers, synced in by the CLI.

// ListResources loads the cached resource snapshot. A missing file is an
// empty directory, not an error.
func (r *FilesystemRepository) ListResources() ([]directory.Resource, error) {
	retryer := retry.New[[]directory.Resource](r.retryConfig)

	return retryer.Do(context.Background(), func(ctx context.Context) ([]directory.Resource, error) {
		path, err := r.ResolvePath(ResourcesFile)
		if err != nil {
			return nil, err
		}

		// #nosec G304 -- Path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return []directory.Resource{}, nil
			}
			return nil, fmt.Errorf("failed to read resources file: %w", err)
		}

		var resources []directory.Resource
		if err := yaml.Unmarshal(data, &resources); err != nil {
			return nil, fmt.Errorf("failed to unmarshal resources: %w", err)
		}
		return resources, nil
	})
}

// SaveResources replaces the cached resource snapshot.
func (r *FilesystemRepository) SaveResources(resources []directory.Resource) error {
	path, err := r.ResolvePath(ResourcesFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(resources)
	if err != nil {
		return fmt.Errorf("failed to marshal resources: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// ListOrders loads the cached order snapshot. A missing file is an empty
// order pool, not an error.
func (r *FilesystemRepository) ListOrders() ([]workorder.Order, error) {
	retryer := retry.New[[]workorder.Order](r.retryConfig)

	return retryer.Do(context.Background(), func(ctx context.Context) ([]workorder.Order, error) {
		path, err := r.ResolvePath(OrdersFile)
		if err != nil {
			return nil, err
		}

		// #nosec G304 -- Path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return []workorder.Order{}, nil
			}
			return nil, fmt.Errorf("failed to read orders file: %w", err)
		}

		var orders []workorder.Order
		if err := yaml.Unmarshal(data, &orders); err != nil {
			return nil, fmt.Errorf("failed to unmarshal orders: %w", err)
		}
		return orders, nil
	})
}

// SaveOrders replaces the cached order snapshot.
func (r *FilesystemRepository) SaveOrders(orders []workorder.Order) error {
	path, err := r.ResolvePath(OrdersFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(orders)
	if err != nil {
		return fmt.Errorf("failed to marshal orders: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// Compile-time checks that the repository backs both external ports.
var _ directory.Service = (*FilesystemRepository)(nil)
var _ workorder.Service = (*FilesystemRepository)(nil)
