// internal/adapters/dynamo/item_store.go
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orovela/joyeria-be/internal/core/domain"
	"github.com/orovela/joyeria-be/internal/core/ports"
)

// itemRecord is the wire shape of an item in the table. Attribute names are
// the original Spanish schema the table was created with; dates travel as
// RFC 3339 strings, prices as decimal strings.
type itemRecord struct {
	ID            string  `dynamodbav:"id"`
	Name          string  `dynamodbav:"nombre"`
	EntryDate     string  `dynamodbav:"fechaIngreso"`
	Material      string  `dynamodbav:"tipoMaterial"`
	UnitWeight    float64 `dynamodbav:"pesoUnitario"`
	Quantity      int     `dynamodbav:"cantidad"`
	PurchasePrice string  `dynamodbav:"precioCompra"`
	Sold          bool    `dynamodbav:"vendido"`
	SaleDate      string  `dynamodbav:"fechaVenta,omitempty"`
	SalePrice     string  `dynamodbav:"precioVenta,omitempty"`
	Description   string  `dynamodbav:"descripcion,omitempty"`
	ImageKey      string  `dynamodbav:"imagen,omitempty"`
	UpdatedAt     string  `dynamodbav:"updatedAt"`
}

func recordFromItem(item *domain.Item) itemRecord {
	rec := itemRecord{
		ID:            item.ID.String(),
		Name:          item.Name,
		EntryDate:     item.EntryDate.UTC().Format(time.RFC3339),
		Material:      string(item.Material),
		UnitWeight:    item.UnitWeight,
		Quantity:      item.Quantity,
		PurchasePrice: item.PurchasePrice.String(),
		Sold:          item.Sold,
		Description:   item.Description,
		ImageKey:      item.ImageKey,
		UpdatedAt:     item.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if item.SaleDate != nil {
		rec.SaleDate = item.SaleDate.UTC().Format(time.RFC3339)
	}
	if item.SalePrice != nil {
		rec.SalePrice = item.SalePrice.String()
	}
	return rec
}

// toItem converts leniently: the table predates this service and holds a
// few hand-edited rows, so unparseable fields degrade to zero values
// instead of failing the whole read.
func (r itemRecord) toItem() domain.Item {
	item := domain.Item{
		Name:        r.Name,
		Material:    domain.MaterialType(r.Material),
		UnitWeight:  r.UnitWeight,
		Quantity:    r.Quantity,
		Sold:        r.Sold,
		Description: r.Description,
		ImageKey:    r.ImageKey,
	}
	if id, err := uuid.Parse(r.ID); err == nil {
		item.ID = id
	}
	if t, err := time.Parse(time.RFC3339, r.EntryDate); err == nil {
		item.EntryDate = t
	}
	if t, err := time.Parse(time.RFC3339, r.UpdatedAt); err == nil {
		item.UpdatedAt = t
	}
	if d, err := decimal.NewFromString(r.PurchasePrice); err == nil {
		item.PurchasePrice = d
	}
	if r.SaleDate != "" {
		if t, err := time.Parse(time.RFC3339, r.SaleDate); err == nil {
			item.SaleDate = &t
		}
	}
	if r.SalePrice != "" {
		if d, err := decimal.NewFromString(r.SalePrice); err == nil {
			item.SalePrice = &d
		}
	}
	return item
}

// itemStore implements ports.ItemStore on DynamoDB
type itemStore struct {
	client *Client
	logger *slog.Logger
}

// NewItemStore creates a new DynamoDB-backed item store
func NewItemStore(client *Client, logger *slog.Logger) ports.ItemStore {
	return &itemStore{
		client: client,
		logger: logger.With(slog.String("store", "dynamo")),
	}
}

// List scans the full table
func (s *itemStore) List(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item

	paginator := dynamodb.NewScanPaginator(s.client.DB(), &dynamodb.ScanInput{
		TableName: aws.String(s.client.Table()),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, &domain.StoreError{Op: "scan", Err: err}
		}

		var records []itemRecord
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &records); err != nil {
			return nil, &domain.StoreError{Op: "scan", Err: fmt.Errorf("unmarshal items: %w", err)}
		}
		for _, rec := range records {
			items = append(items, rec.toItem())
		}
	}

	s.logger.DebugContext(ctx, "items listed", slog.Int("count", len(items)))
	return items, nil
}

// ListByMaterial queries the material index
func (s *itemStore) ListByMaterial(ctx context.Context, material domain.MaterialType) ([]domain.Item, error) {
	keyCond := expression.Key("tipoMaterial").Equal(expression.Value(string(material)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, &domain.StoreError{Op: "query", Err: fmt.Errorf("build expression: %w", err)}
	}

	var items []domain.Item
	paginator := dynamodb.NewQueryPaginator(s.client.DB(), &dynamodb.QueryInput{
		TableName:                 aws.String(s.client.Table()),
		IndexName:                 aws.String(s.client.MaterialIndex()),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, &domain.StoreError{Op: "query", Err: err}
		}

		var records []itemRecord
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &records); err != nil {
			return nil, &domain.StoreError{Op: "query", Err: fmt.Errorf("unmarshal items: %w", err)}
		}
		for _, rec := range records {
			items = append(items, rec.toItem())
		}
	}

	s.logger.DebugContext(ctx, "items listed by material",
		slog.String("material", string(material)),
		slog.Int("count", len(items)))
	return items, nil
}

// Create persists a new item, refusing to overwrite an existing id
func (s *itemStore) Create(ctx context.Context, item *domain.Item) error {
	av, err := attributevalue.MarshalMap(recordFromItem(item))
	if err != nil {
		return &domain.StoreError{Op: "put_item", Err: fmt.Errorf("marshal item: %w", err)}
	}

	cond := expression.AttributeNotExists(expression.Name("id"))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return &domain.StoreError{Op: "put_item", Err: fmt.Errorf("build expression: %w", err)}
	}

	_, err = s.client.DB().PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(s.client.Table()),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return &domain.StoreError{Op: "put_item", Err: err}
	}

	s.logger.DebugContext(ctx, "item created",
		slog.String("id", item.ID.String()),
		slog.String("name", item.Name))
	return nil
}

// MarkSold performs the sold-transition as a single conditional update, so
// two concurrent sales of the same item cannot both succeed.
func (s *itemStore) MarkSold(ctx context.Context, id uuid.UUID, salePrice decimal.Decimal, saleDate time.Time) (*domain.Item, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	cond := expression.AttributeExists(expression.Name("id")).
		And(expression.Equal(expression.Name("vendido"), expression.Value(false)))
	update := expression.
		Set(expression.Name("vendido"), expression.Value(true)).
		Set(expression.Name("fechaVenta"), expression.Value(saleDate.UTC().Format(time.RFC3339))).
		Set(expression.Name("precioVenta"), expression.Value(salePrice.String())).
		Set(expression.Name("updatedAt"), expression.Value(now))
	expr, err := expression.NewBuilder().WithCondition(cond).WithUpdate(update).Build()
	if err != nil {
		return nil, &domain.StoreError{Op: "update_item", Err: fmt.Errorf("build expression: %w", err)}
	}

	out, err := s.client.DB().UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.client.Table()),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id.String()},
		},
		ConditionExpression:       expr.Condition(),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return nil, s.classifySellRejection(ctx, id)
		}
		return nil, &domain.StoreError{Op: "update_item", Err: err}
	}

	var rec itemRecord
	if err := attributevalue.UnmarshalMap(out.Attributes, &rec); err != nil {
		return nil, &domain.StoreError{Op: "update_item", Err: fmt.Errorf("unmarshal updated item: %w", err)}
	}

	s.logger.InfoContext(ctx, "item marked sold",
		slog.String("id", id.String()),
		slog.String("sale_price", salePrice.String()))

	item := rec.toItem()
	return &item, nil
}

// classifySellRejection tells a missing item apart from an already-sold
// one after the conditional update was rejected.
func (s *itemStore) classifySellRejection(ctx context.Context, id uuid.UUID) error {
	out, err := s.client.DB().GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.client.Table()),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id.String()},
		},
		ProjectionExpression: aws.String("id"),
	})
	if err != nil {
		return &domain.StoreError{Op: "get_item", Err: err}
	}
	if len(out.Item) == 0 {
		return domain.ErrItemNotFound
	}
	return domain.ErrAlreadySold
}

// SetImage points the record at its uploaded image
func (s *itemStore) SetImage(ctx context.Context, id uuid.UUID, imageKey string) (*domain.Item, error) {
	cond := expression.AttributeExists(expression.Name("id"))
	update := expression.
		Set(expression.Name("imagen"), expression.Value(imageKey)).
		Set(expression.Name("updatedAt"), expression.Value(time.Now().UTC().Format(time.RFC3339)))
	expr, err := expression.NewBuilder().WithCondition(cond).WithUpdate(update).Build()
	if err != nil {
		return nil, &domain.StoreError{Op: "update_item", Err: fmt.Errorf("build expression: %w", err)}
	}

	out, err := s.client.DB().UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.client.Table()),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id.String()},
		},
		ConditionExpression:       expr.Condition(),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return nil, domain.ErrItemNotFound
		}
		return nil, &domain.StoreError{Op: "update_item", Err: err}
	}

	var rec itemRecord
	if err := attributevalue.UnmarshalMap(out.Attributes, &rec); err != nil {
		return nil, &domain.StoreError{Op: "update_item", Err: fmt.Errorf("unmarshal updated item: %w", err)}
	}

	s.logger.InfoContext(ctx, "item image set",
		slog.String("id", id.String()),
		slog.String("image_key", imageKey))

	item := rec.toItem()
	return &item, nil
}

// WeightInStock aggregates unsold weight per material. The grouping rule is
// shared with the stats computation, so both endpoints always agree.
func (s *itemStore) WeightInStock(ctx context.Context) (map[domain.MaterialType]float64, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.WeightInStock(items), nil
}

// Ping verifies connectivity with a minimal read
func (s *itemStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx); err != nil {
		return &domain.StoreError{Op: "ping", Err: err}
	}
	return nil
}
