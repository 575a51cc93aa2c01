package handlers

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-catalog/internal/application"
	repo "github.com/oksasatya/go-ddd-catalog/internal/domain/repository"
)

// parseProductQuery reads filters, ordering and paging from the query string.
// order[...] keys are applied in the order they appear, so the raw query is
// walked instead of the url.Values map.
func parseProductQuery(c *gin.Context) (application.ProductQuery, error) {
	var q application.ProductQuery

	for _, pair := range strings.Split(c.Request.URL.RawQuery, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawVal, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return q, application.NewValidationError("query", "is malformed")
		}
		val, err := url.QueryUnescape(rawVal)
		if err != nil {
			return q, application.NewValidationError(key, "is malformed")
		}

		switch key {
		case "id", "id[]":
			id, err := positiveID(val)
			if err != nil {
				return q, application.NewValidationError("id", "must be a positive integer")
			}
			q.Filter.IDs = append(q.Filter.IDs, id)
		case "price":
			q.Filter.Price = strings.TrimSpace(val)
		case "description":
			q.Filter.Description = val
		case "order[id]", "order[name]":
			field := repo.SortByID
			if key == "order[name]" {
				field = repo.SortByName
			}
			switch strings.ToLower(val) {
			case "", "asc":
				q.Filter.Sort = append(q.Filter.Sort, repo.Sort{Field: field})
			case "desc":
				q.Filter.Sort = append(q.Filter.Sort, repo.Sort{Field: field, Desc: true})
			default:
				return q, application.NewValidationError(key, "must be asc or desc")
			}
		case "page":
			if q.Page, err = strconv.Atoi(val); err != nil {
				return q, application.NewValidationError("page", "must be an integer")
			}
		case "itemsPerPage":
			if q.ItemsPerPage, err = strconv.Atoi(val); err != nil {
				return q, application.NewValidationError("itemsPerPage", "must be an integer")
			}
		}
	}
	return q, nil
}

func parseOfferQuery(c *gin.Context) (application.OfferQuery, error) {
	var (
		q   application.OfferQuery
		err error
	)
	if v := c.Query("product"); v != "" {
		id, err := positiveID(v)
		if err != nil {
			return q, application.NewValidationError("product", "must be a positive integer")
		}
		q.ProductID = &id
	}
	if v := c.Query("page"); v != "" {
		if q.Page, err = strconv.Atoi(v); err != nil {
			return q, application.NewValidationError("page", "must be an integer")
		}
	}
	if v := c.Query("itemsPerPage"); v != "" {
		if q.ItemsPerPage, err = strconv.Atoi(v); err != nil {
			return q, application.NewValidationError("itemsPerPage", "must be an integer")
		}
	}
	return q, nil
}

func positiveID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}

// pathID parses a positive id path parameter; a bad id is a 404 like any
// other unknown resource.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := positiveID(c.Param(name))
	return id, err == nil
}
