package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"os"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/pkg/errors"
)

//go:embed products.json
var embeddedProducts []byte

// 起動時に一度だけ読み込む静的カタログ
type JSONCatalog struct {
	products []model.Product
	byID     map[int64]int
}

// 同梱のproducts.json
func NewEmbeddedCatalog() (*JSONCatalog, error) {
	return parseCatalog(embeddedProducts)
}

func LoadCatalogFile(path string) (*JSONCatalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read catalog %s", path)
	}
	c, err := parseCatalog(b)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog %s", path)
	}
	return c, nil
}

func parseCatalog(b []byte) (*JSONCatalog, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	var products []model.Product
	if err := dec.Decode(&products); err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}

	byID := make(map[int64]int, len(products))
	for i, p := range products {
		if p.ID <= 0 {
			return nil, errors.Errorf("product #%d: invalid id %d", i, p.ID)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, errors.Errorf("product #%d: duplicate id %d", i, p.ID)
		}
		if len(p.Images) == 0 {
			return nil, errors.Errorf("product %d: images must not be empty", p.ID)
		}
		if p.Price.IsNegative() {
			return nil, errors.Errorf("product %d: negative price", p.ID)
		}
		if p.Rating < 0 || p.Rating > 5 {
			return nil, errors.Errorf("product %d: rating out of range", p.ID)
		}
		byID[p.ID] = i
	}

	return &JSONCatalog{products: products, byID: byID}, nil
}

// 呼び出し側が並び替えても元データは変わらないようコピーを返す
func (c *JSONCatalog) ListAll(ctx context.Context) ([]model.Product, error) {
	out := make([]model.Product, len(c.products))
	copy(out, c.products)
	return out, nil
}

func (c *JSONCatalog) FindByID(ctx context.Context, id int64) (model.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return c.products[i], nil
}

// postgresへの初期投入用
func (c *JSONCatalog) Products() []model.Product {
	out := make([]model.Product, len(c.products))
	copy(out, c.products)
	return out
}
