package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/feedback"
)

type feedbackApi struct {
	svc *feedback.Service
}

func registerFeedbackAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *feedback.Service) {
	api := feedbackApi{svc: svc}

	fg := g.Group("/feedbacks", jwt)
	fg.POST("", api.create)
	fg.PUT("/:id", api.edit)

	g.GET("/submissions/:id/feedbacks", api.queryBySubmission, jwt)
}

// Handlers

func (api *feedbackApi) create(ctx echo.Context) error {
	actorID, err := getContextActorID(ctx)
	if err != nil {
		return err
	}

	var data feedback.NewFeedback
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFeedback")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	fb, err := api.svc.Add(actorID, data)
	if err != nil {
		return errors.Wrap(err, "creating feedback")
	}
	return ctx.JSON(http.StatusCreated, response{Success: true, Message: "feedback created", Data: fb})
}

func (api *feedbackApi) edit(ctx echo.Context) error {
	actorID, err := getContextActorID(ctx)
	if err != nil {
		return err
	}

	var data feedback.EditFeedback
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EditFeedback")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	fb, err := api.svc.Edit(ctx.Param("id"), actorID, data)
	if err != nil {
		return errors.Wrap(err, "editing feedback")
	}
	return ctx.JSON(http.StatusOK, response{Success: true, Message: "feedback edited", Data: fb})
}

func (api *feedbackApi) queryBySubmission(ctx echo.Context) error {
	fbs, err := api.svc.QueryBySubmission(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying submission feedback")
	}
	if fbs == nil {
		fbs = []feedback.Detail{}
	}
	return ctx.JSON(http.StatusOK, response{Success: true, Message: "feedback retrieved", Data: fbs})
}
