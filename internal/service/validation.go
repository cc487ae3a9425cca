package service

import (
	"fmt"
	"strings"

	"changeready_go/internal/model"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateAnswerChanges 在进入答案存储之前校验整批数据，任一项不合法则整批拒绝。
func validateAnswerChanges(changes []model.AnswerChange) error {
	for i := range changes {
		changes[i].QuestionID = strings.TrimSpace(changes[i].QuestionID)
		if err := validate.Struct(changes[i]); err != nil {
			return fmt.Errorf("%w: answer %d: %v", ErrInvalidInput, i, err)
		}
	}
	return nil
}
