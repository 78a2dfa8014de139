package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/mdouchement/n11/internal/client"
	"github.com/mdouchement/n11/pkg/libn11"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	cfg      string
	asArray  bool
	dump     bool
	page     int
	size     int
	settings client.Settings
)

func main() {
	c := &cobra.Command{
		Use:     "n11",
		Short:   "n11 marketplace SOAP API client",
		Version: fmt.Sprintf("%s - build %.7s @ %s", version, revision, date),
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) (err error) {
			settings, err = client.LoadSettings(cfg)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("as-array") {
				settings.AsArray = asArray
			}
			settings.Dump = dump
			return nil
		},
		SilenceUsage: true,
	}
	c.PersistentFlags().StringVarP(&cfg, "config", "c", "", "YAML configuration file")
	c.PersistentFlags().BoolVarP(&asArray, "as-array", "", false, "Convert nested records to plain maps")
	c.PersistentFlags().BoolVarP(&dump, "dump", "", false, "Print the raw decoded response")

	for _, cmd := range []*cobra.Command{categoryAttributesCmd, attributeValuesCmd, productsCmd} {
		cmd.Flags().IntVarP(&page, "page", "p", 0, "Page number")
		cmd.Flags().IntVarP(&size, "size", "s", 0, "Page size (default to the service one)")
	}

	c.AddCommand(loginCmd)
	c.AddCommand(logoutCmd)
	c.AddCommand(categoriesCmd)
	c.AddCommand(subcategoriesCmd)
	c.AddCommand(categoryAttributesCmd)
	c.AddCommand(attributeValuesCmd)
	c.AddCommand(parentCategoryCmd)
	c.AddCommand(attributeListCmd)
	c.AddCommand(citiesCmd)
	c.AddCommand(cityCmd)
	c.AddCommand(districtsCmd)
	c.AddCommand(neighborhoodsCmd)
	c.AddCommand(productsCmd)
	c.AddCommand(productCmd)
	c.AddCommand(productBySellerCmd)
	c.AddCommand(saveProductCmd)
	c.AddCommand(deleteProductCmd)
	c.AddCommand(deleteProductBySellerCmd)

	if err := c.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var (
	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Check and store your n11 API credentials",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Login(settings)
		},
	}

	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored n11 API credentials",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Logout()
		},
	}
)

//
// Categories
//

var (
	categoriesCmd = &cobra.Command{
		Use:   "categories",
		Short: "List the top level categories",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Run(settings, true, func(ctx context.Context, c libn11.Client) (map[string]any, error) {
				return c.FetchCategories(ctx)
			})
		},
	}

	subcategoriesCmd = &cobra.Command{
		Use:   "subcategories ID",
		Short: "List the sub categories of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return client.Run(settings, true, func(ctx context.Context, c libn11.Client) (map[string]any, error) {
				return c.FetchSubCategories(ctx, id)
			})
		},
	}

	categoryAttributesCmd = &cobra.Command{
		Use:   "category-attributes ID",
		Short: "List the attributes of a category with their values",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return client.Run(settings, true, func(ctx context.Context, c libn11.Client) (map[string]any, error) {
				return c.FetchCategoryAttributesWithValues(ctx, id, page, pageSize()...)
			})
		},
	}

	attributeValuesCmd = &cobra.Command{
		Use:   "attribute-values ID",
		Short: "List the values of a category attribute",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return client.Run(settings, true, func(ctx context.Context, c libn11.Client) (map[string]any, error) {
				return c.FetchCategoryAttributeValue(ctx, id, page, pageSize()...)
			})
		},
	}

	parentCategoryCmd = &cobra.Command{
		Use:   "parent-category ID",
		Short: "Show the parent of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return client.Run(settings, true, func(ctx context.Context, c libn11.Client) (map[string]any, error) {
				return c.FetchParentCategory(ctx, id)
			})
		},
	}

	attributeListCmd = &cobra.Command{
		Use:   "attribute-list ID",
		Short: "List the attribute identifiers of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return client.Run(settings, true, func(ctx context.Context, c libn11.Client) (map[string]any, error) {
				return c.FetchCategoryAttributeList(ctx, id)
			})
		},
	}
)

//
// Cities
//

var (
	citiesCmd = &cobra.Command{
		Use:   "cities",
		Short: "List the cities",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Run(settings, false, func(ctx context.Context, c libn11.Client) (map[string]any, error) {
				return c.FetchCities(ctx)
			})
		},
	}

	cityCmd = &cobra.Command{
		Use:   "city CODE",
		Short: "Show a city",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			code, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Wrap(err, "invalid city code")
			}

			return client.Run(settings, false, func(ctx context.Context, c libn11.Client) (map[string]any, error) {
				return c.FetchCity(ctx, code)
			})
		},
	}

	districtsCmd = &cobra.Command{
		Use:   "districts CODE",
		Short: "List the districts of a city",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			code, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Wrap(err, "invalid city code")
			}

			return client.Run(settings, false, func(ctx context.Context, c libn11.Client) (map[string]any, error) {
				return c.FetchDistricts(ctx, code)
			})
		},
	}

	neighborhoodsCmd = &cobra.Command{
		Use:   "neighborhoods ID",
		Short: "List the neighborhoods of a district",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return client.Run(settings, false, func(ctx context.Context, c libn11.Client) (map[string]any, error) {
				return c.FetchNeighborhoods(ctx, id)
			})
		},
	}
)

//
// Products
//

var (
	productsCmd = &cobra.Command{
		Use:   "products",
		Short: "List your products",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Run(settings, true, func(ctx context.Context, c libn11.Client) (map[string]any, error) {
				return c.FetchProductList(ctx, page, pageSize()...)
			})
		},
	}

	productCmd = &cobra.Command{
		Use:   "product ID",
		Short: "Show a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return client.Run(settings, true, func(ctx context.Context, c libn11.Client) (map[string]any, error) {
				return c.FetchProductByID(ctx, id)
			})
		},
	}

	productBySellerCmd = &cobra.Command{
		Use:   "product-by-seller CODE",
		Short: "Show a product by its seller code",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Run(settings, true, func(ctx context.Context, c libn11.Client) (map[string]any, error) {
				return c.FetchProductBySellerCode(ctx, args[0])
			})
		},
	}

	saveProductCmd = &cobra.Command{
		Use:   "save-product FILENAME",
		Short: "Create or update the product described in a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			product, err := client.ReadProduct(args[0])
			if err != nil {
				return err
			}

			return client.Run(settings, true, func(ctx context.Context, c libn11.Client) (map[string]any, error) {
				return c.SaveProduct(ctx, product.Params())
			})
		},
	}

	deleteProductCmd = &cobra.Command{
		Use:   "delete-product ID",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return client.Run(settings, true, func(ctx context.Context, c libn11.Client) (map[string]any, error) {
				return c.DeleteProductByID(ctx, id)
			})
		},
	}

	deleteProductBySellerCmd = &cobra.Command{
		Use:   "delete-product-by-seller CODE",
		Short: "Delete a product by its seller code",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Run(settings, true, func(ctx context.Context, c libn11.Client) (map[string]any, error) {
				return c.DeleteProductBySellerCode(ctx, args[0])
			})
		},
	}
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, errors.Wrap(err, "invalid identifier")
}

func pageSize() []int {
	if size <= 0 {
		return nil
	}
	return []int{size}
}
