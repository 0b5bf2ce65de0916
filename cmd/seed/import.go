package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/repository"
	"github.com/geekcommerce/geek-commerce-backend/internal/app/service"
	"github.com/geekcommerce/geek-commerce-backend/internal/db"
	"github.com/geekcommerce/geek-commerce-backend/internal/importer"
	"github.com/spf13/cobra"
)

var assumeYes bool

var importCmd = &cobra.Command{
	Use:   "import <catalog.xlsx>",
	Short: "Import categories, brands, products and variants from an XLSX workbook",
	Long: `Reads the sheets "categories", "brands", "products" and "variants".
Rows that fail validation are reported and skipped; the rest are imported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath := args[0]

		if !assumeYes && !confirm(fmt.Sprintf("Import %s into the catalog? (yes/no): ", filePath)) {
			fmt.Println("Import cancelled.")
			return nil
		}

		if _, err := connect(); err != nil {
			return err
		}
		defer db.Close()

		conn := db.GetDB()
		categoryRepo := repository.NewCategoryRepository(conn)
		brandRepo := repository.NewBrandRepository(conn)
		productRepo := repository.NewProductRepository(conn)
		variantRepo := repository.NewVariantRepository(conn)

		im := importer.NewImporter(
			service.NewCategoryService(categoryRepo),
			service.NewBrandService(brandRepo),
			service.NewProductService(productRepo, categoryRepo, brandRepo),
			service.NewVariantService(variantRepo, productRepo, brandRepo),
		)

		fmt.Printf("Reading XLSX file: %s\n", filePath)
		report, err := im.ImportFile(filePath)
		if err != nil {
			return err
		}

		fmt.Printf("\nSummary:\n")
		fmt.Printf("  Categories: %d\n", report.Categories)
		fmt.Printf("  Brands:     %d\n", report.Brands)
		fmt.Printf("  Products:   %d\n", report.Products)
		fmt.Printf("  Variants:   %d\n", report.Variants)
		if len(report.Errors) > 0 {
			fmt.Printf("  Skipped rows: %d\n", len(report.Errors))
			for _, rowErr := range report.Errors {
				fmt.Printf("    %v\n", rowErr)
			}
		}
		return nil
	},
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "yes" || answer == "y"
}

func init() {
	importCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(importCmd)
}
