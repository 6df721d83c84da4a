package event

import "github.com/carerota/backend/internal/model"

const TaskUpdateOp = "taskUpdate"

type TaskUpdateEvent struct {
	model.TaskUpdate
}

func (*TaskUpdateEvent) Op() string {
	return TaskUpdateOp
}
