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

// MongoCompanyCollection implements CompanyCollection for MongoDB.
type MongoCompanyCollection struct {
	Collection *mongo.Collection
}

// InsertCompany inserts a company record and returns its hex ID.
func (c *MongoCompanyCollection) InsertCompany(ctx context.Context, company models.Company) (string, error) {
	if c.Collection == nil {
		return "", fmt.Errorf("mongo collection is nil")
	}
	company.ID = primitive.NewObjectID()
	company.CreatedAt = time.Now()
	company.UpdatedAt = time.Now()
	if _, err := c.Collection.InsertOne(ctx, company); err != nil {
		return "", err
	}
	return company.ID.Hex(), nil
}

// FindCompanies queries company records matching the filter.
func (c *MongoCompanyCollection) FindCompanies(ctx context.Context, filter bson.M) ([]models.Company, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var companies []models.Company
	if err := cursor.All(ctx, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

// FindCompanyByName finds a company by its name.
func (c *MongoCompanyCollection) FindCompanyByName(ctx context.Context, name string) (*models.Company, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	var company models.Company
	err := c.Collection.FindOne(ctx, bson.M{"name": name}).Decode(&company)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("company not found")
		}
		return nil, err
	}
	return &company, nil
}
