package main

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"smoothie-order/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// fruitOption ist eine Zeile der Zutatenauswahl.
type fruitOption struct {
	Name     string
	Selected bool
	Disabled bool
}

// formView ist alles, was order_form.html zum Rendern braucht.
type formView struct {
	NameOnOrder string
	Selected    []string
	Options     []fruitOption
	Max         int
	CanSubmit   bool
	Notice      string
	Error       string
	Success     string
	Caption     string
}

// formInput ist der Formularzustand, der bei jeder Interaktion mitgeschickt wird.
type formInput struct {
	NameOnOrder string   `form:"name_on_order"`
	Ingredients []string `form:"ingredients"`
	Toggle      string   `form:"toggle"`
}

func (in formInput) orderForm() services.OrderForm {
	return services.OrderForm{NameOnOrder: in.NameOnOrder, Ingredients: in.Ingredients}
}

// setupFormRoutes registriert je einen Handler pro Interaktion: erste Anzeige,
// Name geändert, Auswahl geändert, Bestellung abgeschickt.
func setupFormRoutes(router *gin.Engine, fruits *services.FruitService, orders *services.OrderService, log *zap.Logger) {
	render := func(c *gin.Context, status int, form services.OrderForm, view formView) {
		options, err := fruits.Options(c.Request.Context())
		if err != nil {
			log.Error("Rendering order form failed", zap.Error(err))
			renderServerError(c, "The fruit list could not be loaded.")
			return
		}
		c.HTML(status, "order_form.html", buildFormView(form, options, view))
	}

	router.GET("/", func(c *gin.Context) {
		render(c, http.StatusOK, services.OrderForm{}, formView{})
	})

	router.POST("/form/name", func(c *gin.Context) {
		var in formInput
		if err := c.ShouldBind(&in); err != nil {
			c.String(http.StatusBadRequest, "invalid form")
			return
		}
		form := in.orderForm()
		form.Ingredients = services.CapSelection(form.Ingredients)
		render(c, http.StatusOK, form, formView{})
	})

	router.POST("/form/select", func(c *gin.Context) {
		var in formInput
		if err := c.ShouldBind(&in); err != nil {
			c.String(http.StatusBadRequest, "invalid form")
			return
		}
		options, err := fruits.Options(c.Request.Context())
		if err != nil {
			log.Error("Loading fruit options for selection failed", zap.Error(err))
			renderServerError(c, "The fruit list could not be loaded.")
			return
		}

		form := in.orderForm()
		form.Ingredients = services.CapSelection(form.Ingredients)
		var view formView
		// Nur angebotene Obstsorten dürfen hinzukommen, entfernen geht immer.
		if in.Toggle != "" && (slices.Contains(options, in.Toggle) || slices.Contains(form.Ingredients, in.Toggle)) {
			next, accepted := services.ToggleIngredient(form.Ingredients, in.Toggle)
			if !accepted {
				view.Notice = fmt.Sprintf("You can choose up to %d ingredients.", services.MaxIngredients)
			}
			form.Ingredients = next
		}
		c.HTML(http.StatusOK, "order_form.html", buildFormView(form, options, view))
	})

	router.POST("/orders", func(c *gin.Context) {
		var form services.OrderForm
		if err := c.ShouldBind(&form); err != nil {
			c.String(http.StatusBadRequest, "invalid form")
			return
		}

		order, err := submitOrder(c, orders, form)
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			form.Ingredients = services.CapSelection(form.Ingredients)
			render(c, http.StatusUnprocessableEntity, form, formView{Error: verr.Message})
		case err != nil:
			renderServerError(c, "Your order could not be saved.")
		default:
			view := formView{
				Success: fmt.Sprintf("Your Smoothie is ordered, %s! ✅", order.NameOnOrder),
				Caption: "Ingredients: " + order.Ingredients,
			}
			// Die Zeile ist geschrieben: die Bestätigung kommt auch ohne Obstliste.
			options, err := fruits.Options(c.Request.Context())
			if err != nil {
				log.Warn("Fruit options unavailable after order was written", zap.Error(err))
				options = nil
			}
			c.HTML(http.StatusOK, "order_form.html", buildFormView(form, options, view))
		}
	})
}

// buildFormView kombiniert Formularzustand und Obstliste zum Anzeigemodell.
func buildFormView(form services.OrderForm, options []string, view formView) formView {
	view.NameOnOrder = form.NameOnOrder
	view.Selected = form.Ingredients
	view.Max = services.MaxIngredients
	view.CanSubmit = form.CanSubmit()

	full := len(form.Ingredients) >= services.MaxIngredients
	view.Options = make([]fruitOption, 0, len(options))
	for _, name := range options {
		selected := slices.Contains(form.Ingredients, name)
		view.Options = append(view.Options, fruitOption{
			Name:     name,
			Selected: selected,
			Disabled: full && !selected,
		})
	}
	return view
}

func renderServerError(c *gin.Context, message string) {
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": message})
}
