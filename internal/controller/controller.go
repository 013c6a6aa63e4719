package controller

import (
	"net/http"

	"github.com/Abdulkaium775/product-recommendation-service/internal/dto"
	"github.com/Abdulkaium775/product-recommendation-service/internal/service"
	pkgdto "github.com/Abdulkaium775/product-recommendation-service/pkg/dto"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type Controller struct {
	service service.CatalogService
}

func CreateCatalogController(e *echo.Echo, service service.CatalogService) {
	c := Controller{
		service: service,
	}
	e.GET("/", c.Liveness)
	e.GET("/products", c.GetProducts)
	e.GET("/products/:id", c.GetProductByID)
	e.POST("/products", c.AddProduct)
	e.PUT("/products/:id", c.UpsertProduct)
	e.DELETE("/products/:id", c.DeleteProduct)
	e.GET("/recommendations", c.GetRecommendationsByRecommender)
	e.POST("/recommendations", c.AddRecommendation)
	e.DELETE("/recommendations/:id", c.DeleteRecommendation)
	e.GET("/myqueries/recommendations", c.GetIncomingRecommendations)
}

func (c *Controller) Liveness(e echo.Context) error {
	return e.String(http.StatusOK, "Hello World!")
}

func (c *Controller) GetProducts(e echo.Context) error {
	data, err := c.service.GetProducts(e.Request().Context())
	if err != nil {
		return pkgdto.WriteErrorResponse(e, err, nil)
	}

	return pkgdto.WriteSuccessResponse(e, "successfully retrieved products", data)
}

func (c *Controller) GetProductByID(e echo.Context) error {
	id := e.Param("id")

	product, err := c.service.GetProductByID(e.Request().Context(), id)
	if err != nil {
		return pkgdto.WriteErrorResponse(e, err, nil)
	}

	return pkgdto.WriteSuccessResponse(e, "successfully retrieved product", product)
}

func (c *Controller) AddProduct(e echo.Context) error {
	payload := dto.ProductRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "AddProduct").Msg("")
	}

	result, err := c.service.AddProduct(e.Request().Context(), payload)
	if err != nil {
		return pkgdto.WriteErrorResponse(e, err, nil)
	}

	return pkgdto.WriteCreatedResponse(e, "product created", result)
}

func (c *Controller) UpsertProduct(e echo.Context) error {
	id := e.Param("id")
	payload := dto.ProductRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "UpsertProduct").Msg("")
	}

	result, err := c.service.UpsertProduct(e.Request().Context(), id, payload)
	if err != nil {
		return pkgdto.WriteErrorResponse(e, err, nil)
	}

	return pkgdto.WriteSuccessResponse(e, "product updated", result)
}

func (c *Controller) DeleteProduct(e echo.Context) error {
	id := e.Param("id")

	result, err := c.service.DeleteProduct(e.Request().Context(), id)
	if err != nil {
		return pkgdto.WriteErrorResponse(e, err, nil)
	}

	return pkgdto.WriteSuccessResponse(e, "product deleted", result)
}

func (c *Controller) GetRecommendationsByRecommender(e echo.Context) error {
	email := e.QueryParam("email")

	data, err := c.service.GetRecommendationsByRecommender(e.Request().Context(), email)
	if err != nil {
		return pkgdto.WriteErrorResponse(e, err, nil)
	}

	return pkgdto.WriteSuccessResponse(e, "successfully retrieved recommendations", data)
}

func (c *Controller) AddRecommendation(e echo.Context) error {
	payload := dto.RecommendationRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "AddRecommendation").Msg("")
	}

	result, err := c.service.AddRecommendation(e.Request().Context(), payload)
	if err != nil {
		return pkgdto.WriteErrorResponse(e, err, nil)
	}

	return pkgdto.WriteCreatedResponse(e, "recommendation created", result)
}

func (c *Controller) DeleteRecommendation(e echo.Context) error {
	id := e.Param("id")

	result, err := c.service.DeleteRecommendation(e.Request().Context(), id)
	if err != nil {
		return pkgdto.WriteErrorResponse(e, err, nil)
	}

	return pkgdto.WriteSuccessResponse(e, "recommendation deleted", result)
}

func (c *Controller) GetIncomingRecommendations(e echo.Context) error {
	email := e.QueryParam("email")

	data, err := c.service.GetIncomingRecommendations(e.Request().Context(), email)
	if err != nil {
		return pkgdto.WriteErrorResponse(e, err, nil)
	}

	return pkgdto.WriteSuccessResponse(e, "successfully retrieved incoming recommendations", data)
}
