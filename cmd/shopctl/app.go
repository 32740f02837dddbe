package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

type runtime struct {
	store   *usecase.CartStore
	catalog *usecase.CatalogUsecase
	repo    repo.CatalogRepository
	close   func()
}

type runtimeLoader func(c *cli.Context) (*runtime, error)

func newApp(load runtimeLoader) *cli.App {
	with := func(fn func(c *cli.Context, rt *runtime) error) cli.ActionFunc {
		return func(c *cli.Context) error {
			rt, err := load(c)
			if err != nil {
				return err
			}
			if rt.close != nil {
				defer rt.close()
			}
			return fn(c, rt)
		}
	}

	return &cli.App{
		Name:  "shopctl",
		Usage: "browse the catalog and manage the local cart",
		Commands: []*cli.Command{
			{
				Name:  "catalog",
				Usage: "catalog queries",
				Subcommands: []*cli.Command{
					{
						Name:  "list",
						Usage: "list products with optional filters",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "min-price", Usage: "lower price bound (inclusive)"},
							&cli.StringFlag{Name: "max-price", Usage: "upper price bound (inclusive)"},
							&cli.Float64Flag{Name: "min-rating", Usage: "minimum rating 0-5"},
							&cli.StringFlag{Name: "sort", Usage: "name-asc, name-desc, price-asc or price-desc"},
						},
						Action: with(catalogList),
					},
					{
						Name:      "show",
						Usage:     "show one product",
						ArgsUsage: "ID",
						Action:    with(catalogShow),
					},
				},
			},
			{
				Name:  "cart",
				Usage: "local cart operations",
				Subcommands: []*cli.Command{
					{
						Name:  "show",
						Usage: "show the cart and totals",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "promo", Usage: "promo code to apply to the totals"},
						},
						Action: with(cartShow),
					},
					{
						Name:      "add",
						Usage:     "add a catalog product (same product increments quantity)",
						ArgsUsage: "ID",
						Action:    with(cartAdd),
					},
					{
						Name:      "remove",
						Usage:     "remove a line",
						ArgsUsage: "ID",
						Action:    with(cartRemove),
					},
					{
						Name:      "update",
						Usage:     "change a line quantity by DELTA (never below 1)",
						ArgsUsage: "ID DELTA",
						Action:    with(cartUpdate),
					},
					{
						Name:   "count",
						Usage:  "total number of items",
						Action: with(cartCount),
					},
				},
			},
		},
	}
}

func catalogList(c *cli.Context, rt *runtime) error {
	minPrice, err := decimalFlag(c, "min-price")
	if err != nil {
		return err
	}
	maxPrice, err := decimalFlag(c, "max-price")
	if err != nil {
		return err
	}

	out, err := rt.catalog.ListProducts(c.Context, usecase.ListProductsInput{
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
		MinRating: c.Float64("min-rating"),
		Sort:      c.String("sort"),
	}, rt.store.Items())
	if err != nil {
		return cliError(err)
	}
	return writeJSON(c, out)
}

func catalogShow(c *cli.Context, rt *runtime) error {
	id, err := intArg(c, 0, "ID")
	if err != nil {
		return err
	}
	p, err := rt.catalog.GetProductDetail(c.Context, id)
	if err != nil {
		return cliError(err)
	}
	return writeJSON(c, p)
}

func cartShow(c *cli.Context, rt *runtime) error {
	promo := usecase.ApplyPromoCode(usecase.PromoState{}, c.String("promo"))
	return writeJSON(c, usecase.Summarize(rt.store.Items(), promo))
}

func cartAdd(c *cli.Context, rt *runtime) error {
	id, err := intArg(c, 0, "ID")
	if err != nil {
		return err
	}
	p, err := rt.repo.FindByID(c.Context, id)
	if err == repo.ErrNotFound {
		return cli.Exit(fmt.Sprintf("product %d not found", id), 1)
	}
	if err != nil {
		return err
	}
	if err := rt.store.AddToCart(c.Context, p); err != nil {
		return err
	}
	return writeJSON(c, usecase.Summarize(rt.store.Items(), usecase.PromoState{}))
}

func cartRemove(c *cli.Context, rt *runtime) error {
	id, err := intArg(c, 0, "ID")
	if err != nil {
		return err
	}
	if err := rt.store.RemoveFromCart(c.Context, id); err != nil {
		return err
	}
	return writeJSON(c, usecase.Summarize(rt.store.Items(), usecase.PromoState{}))
}

func cartUpdate(c *cli.Context, rt *runtime) error {
	id, err := intArg(c, 0, "ID")
	if err != nil {
		return err
	}
	delta, err := intArg(c, 1, "DELTA")
	if err != nil {
		return err
	}
	if err := rt.store.UpdateQuantity(c.Context, id, delta); err != nil {
		return err
	}
	return writeJSON(c, usecase.Summarize(rt.store.Items(), usecase.PromoState{}))
}

func cartCount(c *cli.Context, rt *runtime) error {
	return writeJSON(c, usecase.CartCountOutput{Count: rt.store.TotalItemCount()})
}

func intArg(c *cli.Context, i int, name string) (int64, error) {
	v := c.Args().Get(i)
	if v == "" {
		return 0, cli.Exit(name+" is required", 2)
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, cli.Exit(fmt.Sprintf("%s must be an integer: %q", name, v), 2)
	}
	return n, nil
}

func decimalFlag(c *cli.Context, name string) (*decimal.Decimal, error) {
	v := c.String(name)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("--%s must be a number: %q", name, v), 2)
	}
	return &d, nil
}

func cliError(err error) error {
	if he, ok := usecase.AsHTTPError(err); ok {
		return cli.Exit(he.Message, 1)
	}
	return err
}

func writeJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
