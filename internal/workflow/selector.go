package workflow

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/shopspring/decimal"
)

// Attributes 参与工作流匹配的提案属性
type Attributes struct {
	Category     string
	DivisionID   string
	DepartmentID string
	SavingCost   decimal.Decimal
	EventID      string
}

// env 构造条件表达式的求值环境
func (a Attributes) env() map[string]interface{} {
	return map[string]interface{}{
		"category":      a.Category,
		"division_id":   a.DivisionID,
		"department_id": a.DepartmentID,
		"saving_cost":   a.SavingCost.InexactFloat64(),
		"event_id":      a.EventID,
	}
}

// Selector 工作流选择器
// 条件记录编译为 expr 表达式后缓存，同一配置下同样的属性永远得到同一个工作流
type Selector struct {
	mu    sync.RWMutex
	cache map[string]*vm.Program
}

// NewSelector 创建工作流选择器
func NewSelector() *Selector {
	return &Selector{cache: make(map[string]*vm.Program)}
}

// Select 从候选工作流中选出第一个全部活跃条件成立的
// workflows 必须只含活跃工作流且已按优先级升序排列，无匹配时返回 ErrNoWorkflowMatched
func (s *Selector) Select(workflows []model.Workflow, attrs Attributes) (*model.Workflow, error) {
	env := attrs.env()
	for i := range workflows {
		ok, err := s.matches(&workflows[i], env)
		if err != nil {
			// 条件配置错误按不匹配处理，不让单个坏配置阻塞所有提案创建
			continue
		}
		if ok {
			return &workflows[i], nil
		}
	}
	return nil, ErrNoWorkflowMatched
}

// matches 该工作流的全部活跃条件按合取评估
func (s *Selector) matches(wf *model.Workflow, env map[string]interface{}) (bool, error) {
	for i := range wf.Conditions {
		cond := &wf.Conditions[i]
		if !cond.IsActive {
			continue
		}
		ok, err := s.evaluate(cond, env)
		if err != nil {
			return false, fmt.Errorf("workflow %q condition %d: %w", wf.Name, cond.ID, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// evaluate 编译（带缓存）并执行单个条件
func (s *Selector) evaluate(cond *model.WorkflowCondition, env map[string]interface{}) (bool, error) {
	expression, err := conditionExpression(cond)
	if err != nil {
		return false, err
	}

	s.mu.RLock()
	program, ok := s.cache[expression]
	s.mu.RUnlock()

	if !ok {
		s.mu.Lock()
		if program, ok = s.cache[expression]; !ok {
			program, err = expr.Compile(expression, expr.Env(env), expr.AsBool())
			if err != nil {
				s.mu.Unlock()
				return false, err
			}
			s.cache[expression] = program
		}
		s.mu.Unlock()
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return false, err
	}
	boolResult, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("condition did not evaluate to a boolean, got %T", result)
	}
	return boolResult, nil
}

// conditionExpression 将条件记录翻译为 expr 表达式
func conditionExpression(cond *model.WorkflowCondition) (string, error) {
	field, numeric, err := conditionField(cond.Type)
	if err != nil {
		return "", err
	}

	if numeric {
		value, err := strconv.ParseFloat(strings.TrimSpace(cond.Value), 64)
		if err != nil {
			return "", fmt.Errorf("invalid numeric condition value %q: %w", cond.Value, err)
		}
		op, err := numericOperator(cond.Operator)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %v", field, op, value), nil
	}

	switch cond.Operator {
	case model.OperatorEq:
		return fmt.Sprintf("%s == %s", field, strconv.Quote(strings.TrimSpace(cond.Value))), nil
	case model.OperatorNeq:
		return fmt.Sprintf("%s != %s", field, strconv.Quote(strings.TrimSpace(cond.Value))), nil
	case model.OperatorIn:
		parts := strings.Split(cond.Value, ",")
		quoted := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			quoted = append(quoted, strconv.Quote(p))
		}
		if len(quoted) == 0 {
			return "", fmt.Errorf("empty list for in-condition")
		}
		return fmt.Sprintf("%s in [%s]", field, strings.Join(quoted, ", ")), nil
	default:
		return "", fmt.Errorf("unsupported operator %q for condition type %q", cond.Operator, cond.Type)
	}
}

// conditionField 条件类型到求值环境字段的映射
func conditionField(condType string) (field string, numeric bool, err error) {
	switch condType {
	case model.ConditionTypeCategory:
		return "category", false, nil
	case model.ConditionTypeDivision:
		return "division_id", false, nil
	case model.ConditionTypeDepartment:
		return "department_id", false, nil
	case model.ConditionTypeSavingCost:
		return "saving_cost", true, nil
	case model.ConditionTypeEvent:
		return "event_id", false, nil
	default:
		return "", false, fmt.Errorf("unknown condition type %q", condType)
	}
}

// numericOperator 数值条件运算符映射
func numericOperator(op string) (string, error) {
	switch op {
	case model.OperatorEq:
		return "==", nil
	case model.OperatorNeq:
		return "!=", nil
	case model.OperatorGt:
		return ">", nil
	case model.OperatorGte:
		return ">=", nil
	case model.OperatorLt:
		return "<", nil
	case model.OperatorLte:
		return "<=", nil
	default:
		return "", fmt.Errorf("unsupported numeric operator %q", op)
	}
}
