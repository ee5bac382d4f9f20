package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/task"
)

type taskApi struct {
	svc *task.Service
}

func registerTaskAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *task.Service) {
	api := taskApi{svc: svc}

	tg := g.Group("/tasks", jwt)
	tg.POST("", api.create)
	tg.GET("/:id", api.retrieve)
	tg.PUT("/:id", api.update)
	tg.DELETE("/:id", api.destroy)

	g.GET("/classes/:id/tasks", api.queryByClass, jwt)
}

// Handlers

func (api *taskApi) create(ctx echo.Context) error {
	actorID, err := getContextActorID(ctx)
	if err != nil {
		return err
	}

	var data task.NewTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}

	tsk, err := api.svc.Create(actorID, data)
	if err != nil {
		return errors.Wrap(err, "creating task")
	}
	return ctx.JSON(http.StatusCreated, response{Success: true, Message: "task created", Data: tsk})
}

func (api *taskApi) retrieve(ctx echo.Context) error {
	tsk, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding task by ID")
	}
	return ctx.JSON(http.StatusOK, response{Success: true, Message: "task retrieved", Data: tsk})
}

func (api *taskApi) update(ctx echo.Context) error {
	actorID, err := getContextActorID(ctx)
	if err != nil {
		return err
	}

	var data task.UpdateTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTask")
	}

	tsk, err := api.svc.Update(ctx.Param("id"), actorID, data)
	if err != nil {
		return errors.Wrap(err, "updating task")
	}
	return ctx.JSON(http.StatusOK, response{Success: true, Message: "task updated", Data: tsk})
}

func (api *taskApi) destroy(ctx echo.Context) error {
	actorID, err := getContextActorID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Param("id"), actorID); err != nil {
		return errors.Wrap(err, "deleting task")
	}
	return ctx.JSON(http.StatusOK, response{Success: true, Message: "task deleted"})
}

func (api *taskApi) queryByClass(ctx echo.Context) error {
	tasks, err := api.svc.QueryByClass(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying class tasks")
	}
	return ctx.JSON(http.StatusOK, response{Success: true, Message: "tasks retrieved", Data: tasks})
}
