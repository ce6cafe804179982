package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ukydev/pm-planner/internal/models"
)

// MongoAssetCollection implements AssetCollection for MongoDB.
type MongoAssetCollection struct {
	Collection *mongo.Collection
}

// InsertAsset inserts an asset record and returns its hex ID.
func (c *MongoAssetCollection) InsertAsset(ctx context.Context, asset models.Asset) (string, error) {
	if c.Collection == nil {
		return "", fmt.Errorf("mongo collection is nil")
	}
	asset.ID = primitive.NewObjectID()
	asset.CreatedAt = time.Now()
	asset.UpdatedAt = time.Now()
	if _, err := c.Collection.InsertOne(ctx, asset); err != nil {
		return "", err
	}
	return asset.ID.Hex(), nil
}

// FindAssets queries asset records matching the filter.
func (c *MongoAssetCollection) FindAssets(ctx context.Context, filter bson.M) ([]models.Asset, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assets []models.Asset
	if err := cursor.All(ctx, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

// FindAssetByID finds an asset by its ID.
func (c *MongoAssetCollection) FindAssetByID(ctx context.Context, id string) (*models.Asset, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid asset ID: %w", err)
	}

	var asset models.Asset
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&asset)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("asset not found")
		}
		return nil, err
	}
	return &asset, nil
}

// FindAssetBySerial finds an asset by its serial number.
func (c *MongoAssetCollection) FindAssetBySerial(ctx context.Context, serial string) (*models.Asset, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	var asset models.Asset
	err := c.Collection.FindOne(ctx, bson.M{"serial": serial}).Decode(&asset)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("asset not found")
		}
		return nil, err
	}
	return &asset, nil
}

// UpdateAsset updates an asset by its ID.
func (c *MongoAssetCollection) UpdateAsset(ctx context.Context, id string, asset models.Asset) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid asset ID: %w", err)
	}

	asset.ID = objectID
	asset.UpdatedAt = time.Now()
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": asset})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("asset not found")
	}
	return nil
}

// UpdateAssetUsage sets the usage counters for the asset with the given
// serial. Used by the MQTT usage ingester.
func (c *MongoAssetCollection) UpdateAssetUsage(ctx context.Context, serial string, hours, cycles int64) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}

	result, err := c.Collection.UpdateOne(
		ctx,
		bson.M{"serial": serial},
		bson.M{"$set": bson.M{"hours": hours, "cycles": cycles, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("asset not found")
	}
	return nil
}

// DeleteAsset deletes an asset by its ID.
func (c *MongoAssetCollection) DeleteAsset(ctx context.Context, id string) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid asset ID: %w", err)
	}

	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("asset not found")
	}
	return nil
}
