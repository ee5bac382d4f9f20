package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/submission"
)

type submissionApi struct {
	svc *submission.Service
}

func registerSubmissionAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *submission.Service) {
	api := submissionApi{svc: svc}

	sg := g.Group("/submissions", jwt)
	sg.POST("", api.create)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.revise)
	sg.POST("/:id/upvote", api.toggleUpvote)

	g.GET("/tasks/:id/submissions", api.queryByTask, jwt)
}

// Handlers

func (api *submissionApi) create(ctx echo.Context) error {
	actorID, err := getContextActorID(ctx)
	if err != nil {
		return err
	}

	var data submission.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sub, err := api.svc.Submit(actorID, data)
	if err != nil {
		return errors.Wrap(err, "creating submission")
	}
	return ctx.JSON(http.StatusCreated, response{Success: true, Message: "submission created", Data: sub})
}

func (api *submissionApi) retrieve(ctx echo.Context) error {
	sub, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding submission by ID")
	}
	return ctx.JSON(http.StatusOK, response{Success: true, Message: "submission retrieved", Data: sub})
}

func (api *submissionApi) revise(ctx echo.Context) error {
	actorID, err := getContextActorID(ctx)
	if err != nil {
		return err
	}

	var data submission.ReviseSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReviseSubmission")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sub, err := api.svc.ReviseDocument(ctx.Param("id"), actorID, data)
	if err != nil {
		return errors.Wrap(err, "revising submission")
	}
	return ctx.JSON(http.StatusOK, response{Success: true, Message: "submission revised", Data: sub})
}

// toggleUpvote flips the authenticated user's vote in the role-matching set.
func (api *submissionApi) toggleUpvote(ctx echo.Context) error {
	actorID, err := getContextActorID(ctx)
	if err != nil {
		return err
	}

	var data submission.ToggleUpvote
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ToggleUpvote")
	}
	data.VoterID = actorID
	if err := data.Validate(); err != nil {
		return err
	}

	sub, err := api.svc.ToggleUpvote(ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "toggling upvote")
	}
	return ctx.JSON(http.StatusOK, response{Success: true, Message: "upvote toggled", Data: sub})
}

func (api *submissionApi) queryByTask(ctx echo.Context) error {
	subs, err := api.svc.QueryByTask(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying task submissions")
	}
	if subs == nil {
		subs = []submission.Detail{}
	}
	return ctx.JSON(http.StatusOK, response{Success: true, Message: "submissions retrieved", Data: subs})
}
