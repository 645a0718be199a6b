package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"esklenchen/server/config"
	"esklenchen/server/internal/valuation"
)

// Market is a market area as published by the API.
type Market struct {
	Name         string    `json:"name"`
	Center       []float64 `json:"center"`
	RadiusKm     float64   `json:"radius_km"`
	PricePerArea float64   `json:"price_per_sqm"`
}

type MarketHandler struct {
	markets []Market
}

func NewMarketHandler(areas []config.MarketArea) *MarketHandler {
	markets := make([]Market, len(areas))
	for i, area := range areas {
		markets[i] = Market{
			Name:         area.Name,
			Center:       area.Center,
			RadiusKm:     area.RadiusKm,
			PricePerArea: valuation.BasePricePerArea(area.Name),
		}
	}
	return &MarketHandler{markets: markets}
}

// SetupMarketRoutes adds the read-only market area routes to the router
func SetupMarketRoutes(router *gin.Engine, areas []config.MarketArea) {
	handler := NewMarketHandler(areas)

	router.GET("/api/markets", handler.ListMarkets)
	router.GET("/api/markets/:name", handler.GetMarket)
}

func (h *MarketHandler) ListMarkets(c *gin.Context) {
	c.JSON(http.StatusOK, h.markets)
}

// GetMarket looks an area up by name, ignoring case.
func (h *MarketHandler) GetMarket(c *gin.Context) {
	name := c.Param("name")
	for _, market := range h.markets {
		if strings.EqualFold(market.Name, name) {
			c.JSON(http.StatusOK, market)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Mercado no encontrado"})
}
