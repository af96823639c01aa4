package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawSale is one transaction as served by the upstream products API.
type RawSale struct {
	Product      string          `json:"Produto"`
	Category     string          `json:"Categoria do Produto"`
	Price        decimal.Decimal `json:"Preço"`
	Freight      decimal.Decimal `json:"Frete"`
	PurchaseDate string          `json:"Data da Compra"`
	Seller       string          `json:"Vendedor"`
	Location     string          `json:"Local da compra"`
	Rating       float64         `json:"Avaliação da compra"`
	PaymentType  string          `json:"Tipo de pagamento"`
	Installments float64         `json:"Quantidade de parcelas"`
	Lat          float64         `json:"lat"`
	Lon          float64         `json:"lon"`
}

type SaleRecord struct {
	Product      string
	Category     string
	Price        decimal.Decimal
	Freight      decimal.Decimal
	PurchaseDate time.Time
	Seller       string
	Location     string
	Rating       float64
	PaymentType  string
	Installments float64
	Coordinates  Coordinates
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
