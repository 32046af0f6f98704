package stubserver

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/pkg"
)

// resourceOptions customises a mounted collection.
type resourceOptions[T any] struct {
	// scope maps JSON fields onto gin path parameters. Rows outside the
	// scope are invisible and written rows are stamped with it.
	scope map[string]string
	// beforeCreate runs on a validated row before it is stored.
	beforeCreate func(c *gin.Context, v *T)
	// afterDelete runs once a row is removed.
	afterDelete func(key string, v T)
}

// resourceHandler serves the uniform REST contract of one collection.
type resourceHandler[T any] struct {
	col  *Collection[T]
	opts resourceOptions[T]
}

// mountResource registers the contract on g:
//
//	GET    /all     bare array, query params are exact-match filters
//	GET    ""       paged envelope, pageNumber/pageSize/sort plus filters
//	GET    /:code   one row
//	POST   ""       create, 409 on a taken key
//	PUT    /:code   replace
//	DELETE /:code   remove
func mountResource[T any](g *gin.RouterGroup, col *Collection[T], opts resourceOptions[T]) {
	h := &resourceHandler[T]{col: col, opts: opts}
	g.GET("/all", h.all)
	g.GET("", h.page)
	g.GET("/:code", h.get)
	g.POST("", h.create)
	g.PUT("/:code", h.update)
	g.DELETE("/:code", h.remove)
}

func (h *resourceHandler[T]) all(c *gin.Context) {
	req := pkg.ParsePageRequest(c)
	items, err := h.list(c, req)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, items)
}

func (h *resourceHandler[T]) page(c *gin.Context) {
	req := pkg.ParsePageRequest(c)
	items, err := h.list(c, req)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, pkg.Paginate(items, req))
}

func (h *resourceHandler[T]) list(c *gin.Context, req domain.PageRequest) ([]T, error) {
	filter := req.Filter
	for field, param := range h.opts.scope {
		filter[field] = c.Param(param)
	}
	field, desc, ok := pkg.ParseSort(req.Sort)
	if !ok {
		field = ""
	}
	return h.col.List(filter, field, desc)
}

func (h *resourceHandler[T]) get(c *gin.Context) {
	v, err := h.find(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, v)
}

func (h *resourceHandler[T]) create(c *gin.Context) {
	var v T
	if !pkg.BindAndValidate(c, &v) {
		return
	}
	v, err := h.stamp(c, v)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if h.opts.beforeCreate != nil {
		h.opts.beforeCreate(c, &v)
	}
	created, err := h.col.Create(v)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, created)
}

func (h *resourceHandler[T]) update(c *gin.Context) {
	if _, err := h.find(c); err != nil {
		pkg.Error(c, err)
		return
	}
	var v T
	if !pkg.BindAndValidate(c, &v) {
		return
	}
	v, err := h.stamp(c, v)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if _, err := h.col.Replace(c.Param("code"), v); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.NoContent(c)
}

func (h *resourceHandler[T]) remove(c *gin.Context) {
	v, err := h.find(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	key := c.Param("code")
	if err := h.col.Delete(key); err != nil {
		pkg.Error(c, err)
		return
	}
	if h.opts.afterDelete != nil {
		h.opts.afterDelete(key, v)
	}
	pkg.NoContent(c)
}

// find loads the row named by the code parameter, hiding rows outside the scope.
func (h *resourceHandler[T]) find(c *gin.Context) (T, error) {
	v, err := h.col.Get(c.Param("code"))
	if err != nil || len(h.opts.scope) == 0 {
		return v, err
	}
	fields, err := toFields(v)
	if err != nil {
		return v, err
	}
	for field, param := range h.opts.scope {
		if keyString(fields[field]) != c.Param(param) {
			var zero T
			return zero, domain.ErrNotFound
		}
	}
	return v, nil
}

func (h *resourceHandler[T]) stamp(c *gin.Context, v T) (T, error) {
	if len(h.opts.scope) == 0 {
		return v, nil
	}
	fields, err := toFields(v)
	if err != nil {
		return v, err
	}
	for field, param := range h.opts.scope {
		fields[field] = c.Param(param)
	}
	return fromFields[T](fields)
}
