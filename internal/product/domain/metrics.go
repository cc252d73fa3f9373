package domain

import "math"

// Metrics is the full set of derived financial figures for a product.
type Metrics struct {
	ServiceFeesTotal float64
	TotalAdSpend     float64
	NetProfit        float64
	CPD              float64
	CPL              float64
	ProfitPerOrder   float64
	CPDBreakeven     float64
	CPLBreakeven     float64
	DeliveryRate     float64
	ConfirmationRate float64
	ProfitMargin     float64
}

// Derive recomputes every derived metric from the product's raw
// accumulators. It is pure and idempotent; previously stored derived
// values are never used as input. Per-unit money rounds to 2 decimals,
// rates to 1, and any division by a zero denominator yields 0.
func Derive(p Product) Metrics {
	serviceFees := math.Abs(float64(p.TotalOrders) * p.ServiceFeePerUnit)
	totalAdSpend := math.Abs(p.AdsFacebook) + math.Abs(p.AdsTikTok)
	nonAdCosts := serviceFees + math.Abs(p.COGS) + math.Abs(p.ExtraFees) + math.Abs(p.ShippingFees)
	totalCosts := totalAdSpend + nonAdCosts
	netProfit := p.TotalRevenue - totalCosts

	// Revenue left to cover ads before the product turns unprofitable.
	grossMargin := p.TotalRevenue - nonAdCosts

	m := Metrics{
		ServiceFeesTotal: -serviceFees,
		TotalAdSpend:     totalAdSpend,
		NetProfit:        netProfit,
	}
	if p.TotalOrders > 0 {
		orders := float64(p.TotalOrders)
		m.CPD = round2(totalAdSpend / orders)
		m.ProfitPerOrder = round2(netProfit / orders)
		m.CPDBreakeven = round2(grossMargin / orders)
	}
	if p.TotalLeads > 0 {
		leads := float64(p.TotalLeads)
		m.CPL = round2(totalAdSpend / leads)
		m.CPLBreakeven = round2(grossMargin / leads)
		m.DeliveryRate = round1(100 * float64(p.TotalDelivered) / leads)
		m.ConfirmationRate = round1(100 * float64(p.TotalOrders) / leads)
	}
	if p.TotalRevenue > 0 {
		m.ProfitMargin = round1(100 * netProfit / p.TotalRevenue)
	}
	return m
}

// ApplyDerived copies derived metrics onto the product snapshot.
func (p *Product) ApplyDerived(m Metrics) {
	p.ServiceFeesTotal = m.ServiceFeesTotal
	p.TotalAdSpend = m.TotalAdSpend
	p.NetProfit = m.NetProfit
	p.CPD = m.CPD
	p.CPL = m.CPL
	p.ProfitPerOrder = m.ProfitPerOrder
	p.CPDBreakeven = m.CPDBreakeven
	p.CPLBreakeven = m.CPLBreakeven
	p.DeliveryRate = m.DeliveryRate
	p.ConfirmationRate = m.ConfirmationRate
	p.ProfitMargin = m.ProfitMargin
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round1(v float64) float64 { return math.Round(v*10) / 10 }
