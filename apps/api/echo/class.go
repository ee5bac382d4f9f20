package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/class"
	"github.com/trezcool/darasa/core/submission"
	"github.com/trezcool/darasa/core/task"
)

type classApi struct {
	svc     *class.Service
	taskSvc *task.Service
	subSvc  *submission.Service
}

func registerClassAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := classApi{
		svc:     deps.ClassSvc,
		taskSvc: deps.TaskSvc,
		subSvc:  deps.SubmissionSvc,
	}

	cg := g.Group("/classes", jwt)
	cg.POST("", api.create)
	cg.GET("", api.query)
	cg.GET("/user", api.queryMine)
	cg.POST("/join", api.joinByCode)
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update)
	cg.DELETE("/:id", api.destroy)
	cg.POST("/:id/join", api.join)
	cg.POST("/:id/leave", api.leave)
	cg.POST("/:id/change-role", api.changeRole)
	cg.POST("/:id/invitations", api.invite)

	ig := g.Group("/invitations", jwt)
	ig.POST("/:token/accept", api.acceptInvitation)
	ig.POST("/:token/decline", api.declineInvitation)
}

// Handlers

func (api *classApi) create(ctx echo.Context) error {
	actorID, err := getContextActorID(ctx)
	if err != nil {
		return err
	}

	var data class.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	cls, err := api.svc.Create(actorID, data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, response{Success: true, Message: "class created", Data: cls})
}

func (api *classApi) query(ctx echo.Context) error {
	classes, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	if classes == nil {
		classes = []class.Class{}
	}
	return ctx.JSON(http.StatusOK, response{Success: true, Message: "classes retrieved", Data: classes})
}

func (api *classApi) queryMine(ctx echo.Context) error {
	actorID, err := getContextActorID(ctx)
	if err != nil {
		return err
	}

	classes, err := api.svc.QueryByUser(actorID)
	if err != nil {
		return errors.Wrap(err, "querying user classes")
	}
	if classes == nil {
		classes = []class.Class{}
	}
	return ctx.JSON(http.StatusOK, response{Success: true, Message: "classes retrieved", Data: classes})
}

// retrieve returns the class with its tasks split by status, each task
// annotated with whether the requesting user has submitted for it.
func (api *classApi) retrieve(ctx echo.Context) error {
	actorID, err := getContextActorID(ctx)
	if err != nil {
		return err
	}

	cls, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding class by ID")
	}

	tasks, err := api.taskSvc.QueryByClass(cls.ID)
	if err != nil {
		return errors.Wrap(err, "querying class tasks")
	}
	submitted, err := api.subSvc.SubmittedTaskSet(actorID, cls.Tasks)
	if err != nil {
		return errors.Wrap(err, "querying submitted tasks")
	}

	detail := ClassDetail{
		Class:          cls,
		ActiveTasks:    annotateTasks(tasks.Active, submitted),
		CompletedTasks: annotateTasks(tasks.Completed, submitted),
	}
	return ctx.JSON(http.StatusOK, response{Success: true, Message: "class retrieved", Data: detail})
}

func (api *classApi) update(ctx echo.Context) error {
	actorID, err := getContextActorID(ctx)
	if err != nil {
		return err
	}

	var data class.UpdateClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClass")
	}

	cls, err := api.svc.Update(ctx.Param("id"), actorID, data)
	if err != nil {
		return errors.Wrap(err, "updating class")
	}
	return ctx.JSON(http.StatusOK, response{Success: true, Message: "class updated", Data: cls})
}

func (api *classApi) destroy(ctx echo.Context) error {
	actorID, err := getContextActorID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Param("id"), actorID); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.JSON(http.StatusOK, response{Success: true, Message: "class deleted"})
}

func (api *classApi) join(ctx echo.Context) error {
	actorID, err := getContextActorID(ctx)
	if err != nil {
		return err
	}

	cls, err := api.svc.Join(ctx.Param("id"), actorID)
	if err != nil {
		return errors.Wrap(err, "joining class")
	}
	return ctx.JSON(http.StatusOK, response{Success: true, Message: "class joined", Data: cls})
}

func (api *classApi) joinByCode(ctx echo.Context) error {
	actorID, err := getContextActorID(ctx)
	if err != nil {
		return err
	}

	var data JoinByCodeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to JoinByCodeRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	cls, err := api.svc.JoinByCode(data.Code, actorID)
	if err != nil {
		return errors.Wrap(err, "joining class by code")
	}
	return ctx.JSON(http.StatusOK, response{Success: true, Message: "class joined", Data: cls})
}

func (api *classApi) leave(ctx echo.Context) error {
	actorID, err := getContextActorID(ctx)
	if err != nil {
		return err
	}

	cls, err := api.svc.Leave(ctx.Param("id"), actorID)
	if err != nil {
		return errors.Wrap(err, "leaving class")
	}
	return ctx.JSON(http.StatusOK, response{Success: true, Message: "class left", Data: cls})
}

func (api *classApi) changeRole(ctx echo.Context) error {
	actorID, err := getContextActorID(ctx)
	if err != nil {
		return err
	}

	var data class.ChangeRole
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangeRole")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	cls, err := api.svc.ChangeRole(ctx.Param("id"), actorID, data)
	if err != nil {
		return errors.Wrap(err, "changing role")
	}
	return ctx.JSON(http.StatusOK, response{Success: true, Message: "role changed", Data: cls})
}

func (api *classApi) invite(ctx echo.Context) error {
	actorID, err := getContextActorID(ctx)
	if err != nil {
		return err
	}

	var data class.NewInvitation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewInvitation")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	inv, err := api.svc.Invite(ctx.Param("id"), actorID, data)
	if err != nil {
		return errors.Wrap(err, "inviting user")
	}
	return ctx.JSON(http.StatusCreated, response{Success: true, Message: "invitation sent", Data: inv})
}

func (api *classApi) acceptInvitation(ctx echo.Context) error {
	inv, err := api.svc.RespondInvitation(ctx.Param("token"), true)
	if err != nil {
		return errors.Wrap(err, "accepting invitation")
	}
	return ctx.JSON(http.StatusOK, response{Success: true, Message: "invitation accepted", Data: inv})
}

func (api *classApi) declineInvitation(ctx echo.Context) error {
	inv, err := api.svc.RespondInvitation(ctx.Param("token"), false)
	if err != nil {
		return errors.Wrap(err, "declining invitation")
	}
	return ctx.JSON(http.StatusOK, response{Success: true, Message: "invitation declined", Data: inv})
}

type (
	JoinByCodeRequest struct {
		Code string `json:"class_code" validate:"required"`
	}

	// TaskDetail is a Task annotated with the requesting user's submission state.
	TaskDetail struct {
		task.Task
		IsSubmitted bool `json:"is_submitted"`
	}

	// ClassDetail is a Class joined with its tasks split by status.
	ClassDetail struct {
		class.Class
		ActiveTasks    []TaskDetail `json:"active_tasks"`
		CompletedTasks []TaskDetail `json:"completed_tasks"`
	}
)

func (jr *JoinByCodeRequest) Validate() error {
	jr.Code = core.CleanString(jr.Code)
	return core.Validate.Struct(jr)
}

func annotateTasks(tasks []task.Task, submitted map[string]bool) []TaskDetail {
	details := make([]TaskDetail, 0, len(tasks))
	for _, t := range tasks {
		details = append(details, TaskDetail{Task: t, IsSubmitted: submitted[t.ID]})
	}
	return details
}
