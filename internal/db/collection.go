package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/ukydev/pm-planner/internal/models"
)

// AssetCollection defines the interface for asset data operations.
type AssetCollection interface {
	InsertAsset(ctx context.Context, asset models.Asset) (string, error)
	FindAssets(ctx context.Context, filter bson.M) ([]models.Asset, error)
	FindAssetByID(ctx context.Context, id string) (*models.Asset, error)
	FindAssetBySerial(ctx context.Context, serial string) (*models.Asset, error)
	UpdateAsset(ctx context.Context, id string, asset models.Asset) error
	UpdateAssetUsage(ctx context.Context, serial string, hours, cycles int64) error
	DeleteAsset(ctx context.Context, id string) error
}

// CompanyCollection defines the interface for company data operations.
type CompanyCollection interface {
	InsertCompany(ctx context.Context, company models.Company) (string, error)
	FindCompanies(ctx context.Context, filter bson.M) ([]models.Company, error)
	FindCompanyByName(ctx context.Context, name string) (*models.Company, error)
}
