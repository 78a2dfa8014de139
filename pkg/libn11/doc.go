//
// libn11 is a client of the n11 marketplace SOAP web services (categories, cities and products).
//

// Create client
//
//	client := libn11.New("<APP_KEY>", "<APP_SECRET>", libn11.Options{
//		libn11.OptionAsArray: true, // Plain maps and slices instead of *libn11.Record
//	})
//
// Fetch categories
//
//	categories, err := client.FetchCategories(context.Background())
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(categories["categoryList"])
//
// Fetch the second page of products, 50 per page
//
//	products, err := client.FetchProductList(context.Background(), 2, 50)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Save a product
//
//	product := libn11.Product{
//		ProductSellerCode: "Test001",
//		Title:             "Örnek Başlık",
//		Description:       "Örnek açıklama",
//		Category:          libn11.Category{ID: 999999},
//		Price:             decimal.RequireFromString("99.00"),
//		Domestic:          true,
//		CurrencyType:      libn11.CurrencyTypeTL,
//		Images: libn11.Images{Image: []libn11.Image{
//			{URL: "https://picsum.photos/1024/1024", Order: 1},
//		}},
//		ApprovalStatus:   libn11.ApprovalStatusWaitingForApproval,
//		SaleStartDate:    libn11.NewDate(time.Now().AddDate(-1, 0, 0)),
//		SaleEndDate:      libn11.NewDate(time.Now().AddDate(10, 0, 0)),
//		ProductCondition: 1,
//		PreparingDay:     3,
//		ShipmentTemplate: "Örnek Kargo",
//		StockItems: libn11.StockItems{StockItem: []libn11.StockItem{
//			{Quantity: 5, SellerStockCode: "OrnekStokKodu-1"},
//		}},
//	}
//
//	_, err = client.SaveProduct(context.Background(), product.Params())
//	if err != nil {
//		var n11err *libn11.N11Error
//		if errors.As(err, &n11err) {
//			log.Fatalf("%s (%s)", n11err.Message, n11err.Code)
//		}
//		log.Fatal(err)
//	}
package libn11
