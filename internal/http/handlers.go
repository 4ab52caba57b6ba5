package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"campus/internal/auth"
	"campus/internal/cache"
	"campus/internal/domain"
	"campus/internal/metrics"
	"campus/internal/repository"
	"campus/internal/service"
)

type Server struct {
	engine   *gin.Engine
	accounts *service.AccountService
	catalog  *service.CatalogService
	orders   *service.OrderService
	listings *service.ListingService
	verifier auth.Verifier
	rdb      *redis.Client
}

// NewServer собирает роутер; rdb и m могут быть nil (без кэша и метрик)
func NewServer(accounts *service.AccountService, catalog *service.CatalogService, orders *service.OrderService,
	listings *service.ListingService, verifier auth.Verifier, rdb *redis.Client, m *metrics.ServerMetrics) *Server {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	if m != nil {
		r.Use(m.Middleware())
	}
	s := &Server{
		engine:   r,
		accounts: accounts,
		catalog:  catalog,
		orders:   orders,
		listings: listings,
		verifier: verifier,
		rdb:      rdb,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI + Prometheus
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	s.engine.POST("/auth/register", s.register)
	s.engine.POST("/auth/login", s.login)

	s.engine.GET("/items", s.listItems)
	s.engine.POST("/items", s.requireAuth, s.createItem)
	s.engine.POST("/orders", s.requireAuth, s.createOrder)
	s.engine.GET("/student", s.requireAuth, s.listStudentOrders)
	s.engine.GET("/owner", s.requireAuth, s.listOwnerOrders)
	// PUT живёт в отдельном дереве, поэтому параметр на корне не
	// конфликтует со статическими GET/POST маршрутами
	s.engine.PUT("/:id/status", s.requireAuth, s.updateOrderStatus)
	s.engine.GET("/posts", s.listPosts)
	s.engine.POST("/posts", s.requireAuth, s.createPost)
	s.engine.GET("/type", s.listEvents)

	s.engine.NoRoute(func(c *gin.Context) {
		respondErr(c, http.StatusNotFound, "Endpoint not found")
	})
}

// response envelope helpers

func respond(c *gin.Context, code int, data any) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func respondCount(c *gin.Context, code int, data any, count int) {
	c.JSON(code, gin.H{"success": true, "count": count, "data": data})
}

func respondErr(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "message": message})
}

const principalKey = "principal"

// requireAuth извлекает bearer-токен и кладёт Principal в контекст
func (s *Server) requireAuth(c *gin.Context) {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		respondErr(c, http.StatusUnauthorized, "Authentication required")
		c.Abort()
		return
	}
	p, err := s.verifier.Verify(strings.TrimPrefix(h, "Bearer "))
	if err != nil {
		respondErr(c, http.StatusUnauthorized, "Invalid token")
		c.Abort()
		return
	}
	c.Set(principalKey, p)
	c.Next()
}

func principalFrom(c *gin.Context) domain.Principal {
	p, _ := c.MustGet(principalKey).(domain.Principal)
	return p
}

func mapErrorToStatus(err error) int {
	switch err {
	case service.ErrInvalidInput:
		return http.StatusBadRequest
	case service.ErrInvalidCredentials:
		return http.StatusUnauthorized
	case service.ErrForbidden:
		return http.StatusForbidden
	case repository.ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Auth handlers

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	College  string `json:"college"`
}

// @Summary Register profile
// @Tags auth
// @Accept json
// @Produce json
// @Param input body registerReq true "Profile"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /auth/register [post]
func (s *Server) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "invalid json")
		return
	}
	p, token, err := s.accounts.Register(c, service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     domain.Role(req.Role),
		College:  req.College,
	})
	if err != nil {
		respondErr(c, mapErrorToStatus(err), err.Error())
		return
	}
	respond(c, http.StatusCreated, gin.H{"user": p, "token": token})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginReq true "Credentials"
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Router /auth/login [post]
func (s *Server) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "invalid json")
		return
	}
	p, token, err := s.accounts.Login(c, req.Email, req.Password)
	if err != nil {
		respondErr(c, mapErrorToStatus(err), err.Error())
		return
	}
	respond(c, http.StatusOK, gin.H{"user": p, "token": token})
}

// Catalog handlers

// @Summary List available canteen items
// @Tags canteen
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /items [get]
func (s *Server) listItems(c *gin.Context) {
	if raw, ok := cache.Get(c, s.rdb, cache.KeyCatalogItems); ok {
		respond(c, http.StatusOK, json.RawMessage(raw))
		return
	}
	items, err := s.catalog.List(c)
	if err != nil {
		respondErr(c, mapErrorToStatus(err), err.Error())
		return
	}
	if b, err := json.Marshal(items); err == nil {
		cache.Set(c, s.rdb, cache.KeyCatalogItems, string(b), cache.TTLCatalog)
	}
	respond(c, http.StatusOK, items)
}

type createItemReq struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	IsVeg       *bool   `json:"is_veg"`
	Available   *bool   `json:"available"`
	Description string  `json:"description"`
}

// @Summary Create canteen item
// @Tags canteen
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body createItemReq true "Item"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Router /items [post]
func (s *Server) createItem(c *gin.Context) {
	var req createItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "invalid json")
		return
	}
	item := domain.CatalogItem{
		Name:        req.Name,
		Price:       req.Price,
		IsVeg:       true,
		Available:   true,
		Description: req.Description,
	}
	if req.IsVeg != nil {
		item.IsVeg = *req.IsVeg
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	created, err := s.catalog.Create(c, principalFrom(c), item)
	if err != nil {
		respondErr(c, mapErrorToStatus(err), err.Error())
		return
	}
	cache.Invalidate(c, s.rdb, cache.KeyCatalogItems)
	respond(c, http.StatusCreated, created)
}

// Order handlers

type createOrderReq struct {
	Items      []domain.OrderLine `json:"items"`
	TotalPrice float64            `json:"total_price"`
	Notes      string             `json:"notes"`
}

// @Summary Create order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body createOrderReq true "Order"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Router /orders [post]
func (s *Server) createOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "invalid json")
		return
	}
	o, err := s.orders.Create(c, principalFrom(c), req.Items, req.TotalPrice, req.Notes)
	if err != nil {
		respondErr(c, mapErrorToStatus(err), err.Error())
		return
	}
	respond(c, http.StatusCreated, o)
}

// @Summary Orders placed by the authenticated student
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Router /student [get]
func (s *Server) listStudentOrders(c *gin.Context) {
	list, err := s.orders.ListForPurchaser(c, principalFrom(c))
	if err != nil {
		respondErr(c, mapErrorToStatus(err), err.Error())
		return
	}
	respondCount(c, http.StatusOK, list, len(list))
}

// @Summary Orders touching the owner's catalog
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Router /owner [get]
func (s *Server) listOwnerOrders(c *gin.Context) {
	list, err := s.orders.ListForOwner(c, principalFrom(c))
	if err != nil {
		respondErr(c, mapErrorToStatus(err), err.Error())
		return
	}
	respondCount(c, http.StatusOK, list, len(list))
}

type updateStatusReq struct {
	Status string `json:"status"`
}

// @Summary Update order status
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param input body updateStatusReq true "New status"
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Failure 403 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /{id}/status [put]
func (s *Server) updateOrderStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "invalid json")
		return
	}
	o, err := s.orders.UpdateStatus(c, principalFrom(c), c.Param("id"), domain.OrderStatus(req.Status))
	if err == service.ErrForbidden {
		respondErr(c, http.StatusForbidden, "Not authorized to update this order")
		return
	}
	if err != nil {
		respondErr(c, mapErrorToStatus(err), err.Error())
		return
	}
	respond(c, http.StatusOK, o)
}

// Roommate post handlers

// @Summary List roommate posts
// @Tags rooms
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /posts [get]
func (s *Server) listPosts(c *gin.Context) {
	list, err := s.listings.ListPosts(c)
	if err != nil {
		respondErr(c, mapErrorToStatus(err), err.Error())
		return
	}
	respondCount(c, http.StatusOK, list, len(list))
}

type createPostReq struct {
	Budget      int    `json:"budget"`
	Location    string `json:"location"`
	Preferences string `json:"preferences"`
	Contact     string `json:"contact"`
}

// @Summary Create roommate post
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body createPostReq true "Post"
// @Success 201 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Router /posts [post]
func (s *Server) createPost(c *gin.Context) {
	var req createPostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "invalid json")
		return
	}
	post, err := s.listings.CreatePost(c, principalFrom(c), domain.RoommatePost{
		Budget:      req.Budget,
		Location:    req.Location,
		Preferences: req.Preferences,
		Contact:     req.Contact,
	})
	if err != nil {
		respondErr(c, mapErrorToStatus(err), err.Error())
		return
	}
	respond(c, http.StatusCreated, post)
}

// Event handlers

// @Summary List events ordered by date
// @Tags events
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /type [get]
func (s *Server) listEvents(c *gin.Context) {
	list, err := s.listings.ListEvents(c)
	if err != nil {
		respondErr(c, mapErrorToStatus(err), err.Error())
		return
	}
	respondCount(c, http.StatusOK, list, len(list))
}
