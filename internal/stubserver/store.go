package stubserver

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simp-lee/posadmin/internal/domain"
)

// Store holds every table of the stub backend.
type Store struct {
	CustomerGroups    *Collection[domain.CustomerGroup]
	Customers         *Collection[domain.Customer]
	ProductGroups     *Collection[domain.ProductGroup]
	ProductCategories *Collection[domain.ProductCategory]
	Products          *Collection[domain.Product]
	Sizes             *Collection[domain.Size]
	Variants          *Collection[domain.Variant]
	ProductTrees      *Collection[domain.ProductTree]
	Accompaniments    *Collection[domain.Accompaniment]
	Combos            *Collection[domain.Combo]
	Devices           *Collection[domain.Device]
	PointsOfSale      *Collection[domain.PointOfSale]
	Images            *Collection[domain.Image]
	Orders            *Collection[domain.Order]

	mu    sync.RWMutex
	files map[string]storedFile
}

type storedFile struct {
	name        string
	contentType string
	data        []byte
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		CustomerGroups:    NewCollection[domain.CustomerGroup]("groupCode"),
		Customers:         NewCollection[domain.Customer]("customerCode"),
		ProductGroups:     NewCollection[domain.ProductGroup]("groupCode"),
		ProductCategories: NewCollection[domain.ProductCategory]("categoryCode"),
		Products:          NewCollection[domain.Product]("itemCode"),
		Sizes:             NewCollection[domain.Size]("sizeCode"),
		Variants:          NewAutoCollection[domain.Variant]("variantID"),
		ProductTrees:      NewCollection[domain.ProductTree]("treeCode"),
		Accompaniments:    NewCollection[domain.Accompaniment]("accompanimentCode"),
		Combos:            NewCollection[domain.Combo]("comboCode"),
		Devices:           NewCollection[domain.Device]("deviceCode"),
		PointsOfSale:      NewCollection[domain.PointOfSale]("posCode"),
		Images:            NewCollection[domain.Image]("imageCode"),
		Orders:            NewAutoCollection[domain.Order]("docEntry"),
		files:             make(map[string]storedFile),
	}
}

func (s *Store) putFile(code string, f storedFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[code] = f
}

func (s *Store) file(code string) (storedFile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[code]
	return f, ok
}

func (s *Store) dropFile(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, code)
}

// Seed fills the store with a small demo catalog. Rows already present are
// left alone.
func (s *Store) Seed(now time.Time) {
	price := decimal.RequireFromString

	_, _ = s.CustomerGroups.Create(domain.CustomerGroup{GroupCode: "RETAIL", GroupName: "Retail", Enabled: true})
	_, _ = s.CustomerGroups.Create(domain.CustomerGroup{GroupCode: "VIP", GroupName: "VIP", Discount: 10, Enabled: true})
	_, _ = s.Customers.Create(domain.Customer{CustomerCode: "C0001", CustomerName: "Walk-in", GroupCode: "RETAIL", Enabled: true})
	_, _ = s.Customers.Create(domain.Customer{CustomerCode: "C0002", CustomerName: "Ana Lima", GroupCode: "VIP", Email: "ana@example.com", Discount: 10, Enabled: true})

	_, _ = s.ProductGroups.Create(domain.ProductGroup{GroupCode: "FOOD", GroupName: "Food", DisplayOrder: 1, Enabled: true})
	_, _ = s.ProductGroups.Create(domain.ProductGroup{GroupCode: "DRINK", GroupName: "Drinks", DisplayOrder: 2, Enabled: true})
	_, _ = s.ProductCategories.Create(domain.ProductCategory{CategoryCode: "BURGER", CategoryName: "Burgers", GroupCode: "FOOD", DisplayOrder: 1, Enabled: true})
	_, _ = s.ProductCategories.Create(domain.ProductCategory{CategoryCode: "SODA", CategoryName: "Sodas", GroupCode: "DRINK", DisplayOrder: 1, Enabled: true})

	_, _ = s.Products.Create(domain.Product{ItemCode: "BURGER-01", ItemName: "Classic Burger", GroupCode: "FOOD", CategoryCode: "BURGER", Price: price("8.50"), UoM: "EA", Sellable: true, Enabled: true})
	_, _ = s.Products.Create(domain.Product{ItemCode: "COLA-01", ItemName: "Cola", GroupCode: "DRINK", CategoryCode: "SODA", Price: price("2.00"), UoM: "EA", Sellable: true, Enabled: true})
	_, _ = s.Products.Create(domain.Product{ItemCode: "BUN-01", ItemName: "Burger Bun", GroupCode: "FOOD", Price: price("0.40"), UoM: "EA", Enabled: true})
	_, _ = s.Products.Create(domain.Product{ItemCode: "MENU-01", ItemName: "Burger Menu", GroupCode: "FOOD", Price: price("9.90"), Sellable: true, IsCombo: true, Enabled: true})

	_, _ = s.Sizes.Create(domain.Size{SizeCode: "S", SizeName: "Small", DisplayOrder: 1})
	_, _ = s.Sizes.Create(domain.Size{SizeCode: "L", SizeName: "Large", DisplayOrder: 2})
	_, _ = s.Variants.Create(domain.Variant{ItemCode: "COLA-01", SizeCode: "S", VariantName: "Cola Small", Price: price("2.00"), Enabled: true})
	_, _ = s.Variants.Create(domain.Variant{ItemCode: "COLA-01", SizeCode: "L", VariantName: "Cola Large", Price: price("2.80"), Enabled: true})

	_, _ = s.ProductTrees.Create(domain.ProductTree{TreeCode: "T-BURGER-01", ItemCode: "BURGER-01", Quantity: decimal.NewFromInt(1), Enabled: true,
		Components: []domain.ProductTreeComponent{{ItemCode: "BUN-01", Quantity: decimal.NewFromInt(1), UoM: "EA"}}})
	_, _ = s.Accompaniments.Create(domain.Accompaniment{AccompanimentCode: "ACC-CHEESE", AccompanimentName: "Extra cheese", Price: price("0.80"), Enabled: true})
	_, _ = s.Combos.Create(domain.Combo{ComboCode: "MENU-01", ComboName: "Burger Menu", Price: price("9.90"), Enabled: true,
		Options: []domain.ComboOption{
			{OptionName: "Main", MinSelect: 1, MaxSelect: 1, Items: []domain.ComboOptionItem{{ItemCode: "BURGER-01", IsDefault: true}}},
			{OptionName: "Drink", MinSelect: 1, MaxSelect: 1, Items: []domain.ComboOptionItem{{ItemCode: "COLA-01", IsDefault: true}}},
		}})

	_, _ = s.PointsOfSale.Create(domain.PointOfSale{POSCode: "POS01", POSName: "Front counter", StoreCode: "S01", Enabled: true})
	_, _ = s.Devices.Create(domain.Device{DeviceCode: "DEV-TILL-1", DeviceName: "Till 1", DeviceType: domain.DeviceTypePOS, POSCode: "POS01", Enabled: true})
	_, _ = s.Devices.Create(domain.Device{DeviceCode: "DEV-KDS-1", DeviceName: "Kitchen screen", DeviceType: domain.DeviceTypeKDS, POSCode: "POS01", Enabled: true})

	if s.Orders.Len() == 0 {
		_, _ = s.Orders.Create(domain.Order{DocNum: "SO-1", CustomerCode: "C0001", POSCode: "POS01", Status: domain.OrderPending,
			DocTotal: price("10.50"), CreatedAt: now,
			Lines: []domain.OrderLine{
				{LineNum: 1, ItemCode: "BURGER-01", ItemName: "Classic Burger", Quantity: decimal.NewFromInt(1), Price: price("8.50"), LineTotal: price("8.50")},
				{LineNum: 2, ItemCode: "COLA-01", ItemName: "Cola", Quantity: decimal.NewFromInt(1), Price: price("2.00"), LineTotal: price("2.00")},
			}})
	}
}
