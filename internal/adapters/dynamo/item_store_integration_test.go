//go:build integration
// +build integration

package dynamo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	dynamoadapter "github.com/orovela/joyeria-be/internal/adapters/dynamo"
	"github.com/orovela/joyeria-be/internal/core/domain"
	"github.com/orovela/joyeria-be/internal/core/ports"
	"github.com/orovela/joyeria-be/test/helpers"
)

type ItemStoreSuite struct {
	suite.Suite
	testDynamo *helpers.TestDynamo
	store      ports.ItemStore
	ctx        context.Context
}

func (s *ItemStoreSuite) SetupSuite() {
	s.testDynamo = helpers.SetupTestDynamo(s.T())
	s.store = dynamoadapter.NewItemStore(s.testDynamo.Client, helpers.TestLogger())
	s.ctx = context.Background()
}

func (s *ItemStoreSuite) SetupTest() {
	// Clear the table before each test
	items, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	for _, item := range items {
		_, err := s.testDynamo.Client.DB().DeleteItem(s.ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.testDynamo.Config.Table),
			Key: map[string]types.AttributeValue{
				"id": &types.AttributeValueMemberS{Value: item.ID.String()},
			},
		})
		s.Require().NoError(err)
	}
}

func (s *ItemStoreSuite) TestCreateAndList() {
	item := helpers.CreateTestItem()

	err := s.store.Create(s.ctx, item)
	s.NoError(err)

	items, err := s.store.List(s.ctx)
	s.NoError(err)
	s.Require().Len(items, 1)
	helpers.CompareItems(s.T(), item, &items[0])
}

func (s *ItemStoreSuite) TestListByMaterial() {
	for i := 0; i < 3; i++ {
		item := helpers.CreateTestItem(func(it *domain.Item) {
			it.ID = uuid.New()
			it.Name = fmt.Sprintf("Gold Item %d", i)
			it.Material = domain.MaterialGold
		})
		s.Require().NoError(s.store.Create(s.ctx, item))
	}
	silver := helpers.CreateTestItem(func(it *domain.Item) {
		it.ID = uuid.New()
		it.Material = domain.MaterialSilver
	})
	s.Require().NoError(s.store.Create(s.ctx, silver))

	items, err := s.store.ListByMaterial(s.ctx, domain.MaterialGold)
	s.NoError(err)
	s.Len(items, 3)
	for _, item := range items {
		s.Equal(domain.MaterialGold, item.Material)
	}
}

func (s *ItemStoreSuite) TestMarkSold() {
	item := helpers.CreateTestItem()
	s.Require().NoError(s.store.Create(s.ctx, item))

	price := decimal.NewFromFloat(999.99)
	saleDate := time.Now().UTC().Truncate(time.Second)

	sold, err := s.store.MarkSold(s.ctx, item.ID, price, saleDate)
	s.NoError(err)
	s.Require().NotNil(sold)
	s.True(sold.Sold)
	s.Require().NotNil(sold.SalePrice)
	s.True(sold.SalePrice.Equal(price))
	s.Require().NotNil(sold.SaleDate)
	s.True(sold.SaleDate.Equal(saleDate))

	// The other fields survive the update untouched.
	s.Equal(item.Name, sold.Name)
	s.Equal(item.Material, sold.Material)
}

func (s *ItemStoreSuite) TestMarkSold_AlreadySold() {
	item := helpers.CreateTestItem()
	s.Require().NoError(s.store.Create(s.ctx, item))

	price := decimal.NewFromFloat(500)
	_, err := s.store.MarkSold(s.ctx, item.ID, price, time.Now())
	s.Require().NoError(err)

	_, err = s.store.MarkSold(s.ctx, item.ID, decimal.NewFromFloat(600), time.Now())
	s.ErrorIs(err, domain.ErrAlreadySold)

	// The first sale's price is still in place.
	items, err := s.store.List(s.ctx)
	s.NoError(err)
	s.Require().Len(items, 1)
	s.Require().NotNil(items[0].SalePrice)
	s.True(items[0].SalePrice.Equal(price))
}

func (s *ItemStoreSuite) TestMarkSold_NotFound() {
	_, err := s.store.MarkSold(s.ctx, uuid.New(), decimal.NewFromFloat(100), time.Now())
	s.ErrorIs(err, domain.ErrItemNotFound)
}

func (s *ItemStoreSuite) TestMarkSold_Concurrent() {
	item := helpers.CreateTestItem()
	s.Require().NoError(s.store.Create(s.ctx, item))

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func(n int) {
			_, err := s.store.MarkSold(context.Background(), item.ID,
				decimal.NewFromInt(int64(100+n)), time.Now())
			results <- err
		}(i)
	}

	var failures int
	for i := 0; i < 2; i++ {
		if err := <-results; err != nil {
			s.ErrorIs(err, domain.ErrAlreadySold)
			failures++
		}
	}
	s.Equal(1, failures, "exactly one of two concurrent sales must be rejected")
}

func (s *ItemStoreSuite) TestSetImage() {
	item := helpers.CreateTestItem()
	s.Require().NoError(s.store.Create(s.ctx, item))

	updated, err := s.store.SetImage(s.ctx, item.ID, "items/abc/photo.jpg")
	s.NoError(err)
	s.Require().NotNil(updated)
	s.Equal("items/abc/photo.jpg", updated.ImageKey)
	s.Equal(item.Name, updated.Name)
}

func (s *ItemStoreSuite) TestSetImage_NotFound() {
	_, err := s.store.SetImage(s.ctx, uuid.New(), "items/abc/photo.jpg")
	s.ErrorIs(err, domain.ErrItemNotFound)
}

func (s *ItemStoreSuite) TestCreate_DuplicateID() {
	item := helpers.CreateTestItem()
	s.Require().NoError(s.store.Create(s.ctx, item))

	err := s.store.Create(s.ctx, item)
	s.Error(err)
	s.True(domain.IsStoreError(err))
}

func (s *ItemStoreSuite) TestWeightInStock() {
	gold := helpers.CreateTestItem(func(it *domain.Item) {
		it.ID = uuid.New()
		it.Material = domain.MaterialGold
		it.UnitWeight = 5
		it.Quantity = 2
	})
	silver := helpers.CreateTestItem(func(it *domain.Item) {
		it.ID = uuid.New()
		it.Material = domain.MaterialSilver
		it.UnitWeight = 3
		it.Quantity = 1
	})
	soldGold := helpers.CreateTestItem(func(it *domain.Item) {
		it.ID = uuid.New()
		it.Material = domain.MaterialGold
		it.UnitWeight = 100
		it.Quantity = 1
		it.Sold = true
	})

	for _, item := range []*domain.Item{gold, silver, soldGold} {
		s.Require().NoError(s.store.Create(s.ctx, item))
	}

	weights, err := s.store.WeightInStock(s.ctx)
	s.NoError(err)
	s.InDelta(10.0, weights[domain.MaterialGold], 1e-9)
	s.InDelta(3.0, weights[domain.MaterialSilver], 1e-9)
	s.Len(weights, 2)
}

func (s *ItemStoreSuite) TestPing() {
	s.NoError(s.store.Ping(s.ctx))
}

func TestItemStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(ItemStoreSuite))
}
