package services

import (
	"context"

	"filefusion/internal/domain"
)

type Inspector interface {
	Inspect(ctx context.Context, req InspectRequest) (domain.FolderStats, error)
}

type Customizer interface {
	Apply(ctx context.Context, req ApplyRequest) (ApplyResult, error)
	Reset(ctx context.Context, folder string) (ApplyResult, error)
	Status(folder string) (MarkerStatus, error)
}

type ChangeNotifier interface {
	Watch(path string) error
	Changes() <-chan string
}
