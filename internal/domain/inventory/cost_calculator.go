package inventory

import "github.com/shopspring/decimal"

// WeightedCost implementa la lógica de costo promedio ponderado (servicio de
// dominio) para entradas de stock concurrentes sobre la misma variante:
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func WeightedCost(currentStock int64, currentCost decimal.Decimal, entryQty int64, entryCost decimal.Decimal) decimal.Decimal {
	stock := decimal.NewFromInt(currentStock)
	qty := decimal.NewFromInt(entryQty)
	sum := stock.Add(qty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return entryCost
	}
	num := stock.Mul(currentCost).Add(qty.Mul(entryCost))
	return num.Div(sum)
}
