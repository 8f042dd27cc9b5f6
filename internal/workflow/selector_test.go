package workflow

import (
	"testing"

	"github.com/Lidan4315/Ideku-sub000/internal/model"
	"github.com/shopspring/decimal"
)

func buildTestWorkflows() []model.Workflow {
	// 按优先级升序排列，与 WorkflowRepository.FindActiveOrdered 的返回一致
	return []model.Workflow{
		{
			ID:       1,
			Name:     "安全高额流程",
			Priority: 1,
			IsActive: true,
			Stages: []model.WorkflowStage{
				{Stage: 1, RoleName: string(model.RoleApprover)},
				{Stage: 2, RoleName: string(model.RoleWorkstreamLeader)},
				{Stage: 3, RoleName: string(model.RoleSCFO)},
				{Stage: 4, RoleName: string(model.RoleAdmin)},
			},
			Conditions: []model.WorkflowCondition{
				{ID: 1, Type: model.ConditionTypeCategory, Operator: model.OperatorEq, Value: "Safety", IsActive: true},
				{ID: 2, Type: model.ConditionTypeSavingCost, Operator: model.OperatorGte, Value: "20000", IsActive: true},
			},
		},
		{
			ID:       2,
			Name:     "安全普通流程",
			Priority: 2,
			IsActive: true,
			Stages: []model.WorkflowStage{
				{Stage: 1, RoleName: string(model.RoleApprover)},
				{Stage: 2, RoleName: string(model.RoleWorkstreamLeader)},
			},
			Conditions: []model.WorkflowCondition{
				{ID: 3, Type: model.ConditionTypeCategory, Operator: model.OperatorEq, Value: "Safety", IsActive: true},
			},
		},
		{
			ID:       3,
			Name:     "兜底流程",
			Priority: 99,
			IsActive: true,
			Stages: []model.WorkflowStage{
				{Stage: 1, RoleName: string(model.RoleApprover)},
			},
			// 无条件，匹配一切
		},
	}
}

// TestSelectorSelect 测试按优先级的工作流匹配
func TestSelectorSelect(t *testing.T) {
	workflows := buildTestWorkflows()

	tests := []struct {
		name       string
		attrs      Attributes
		expectedID uint
	}{
		{
			name:       "安全类高额命中优先级最高的流程",
			attrs:      Attributes{Category: "Safety", SavingCost: decimal.NewFromInt(25000)},
			expectedID: 1,
		},
		{
			name:       "安全类恰好达到阈值",
			attrs:      Attributes{Category: "Safety", SavingCost: decimal.NewFromInt(20000)},
			expectedID: 1,
		},
		{
			name:       "安全类低额落到次优先级流程",
			attrs:      Attributes{Category: "Safety", SavingCost: decimal.NewFromInt(5000)},
			expectedID: 2,
		},
		{
			name:       "非安全类落到兜底流程",
			attrs:      Attributes{Category: "Quality", SavingCost: decimal.NewFromInt(100000)},
			expectedID: 3,
		},
		{
			name:       "空属性落到兜底流程",
			attrs:      Attributes{},
			expectedID: 3,
		},
	}

	selector := NewSelector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf, err := selector.Select(workflows, tt.attrs)
			if err != nil {
				t.Fatalf("Select() unexpected error: %v", err)
			}
			if wf.ID != tt.expectedID {
				t.Errorf("Select() = workflow %d (%s), expected workflow %d", wf.ID, wf.Name, tt.expectedID)
			}
		})
	}
}

// TestSelectorDeterminism 测试同样的属性重复匹配得到同一个工作流
func TestSelectorDeterminism(t *testing.T) {
	workflows := buildTestWorkflows()
	selector := NewSelector()
	attrs := Attributes{Category: "Safety", SavingCost: decimal.NewFromInt(25000)}

	first, err := selector.Select(workflows, attrs)
	if err != nil {
		t.Fatalf("Select() unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		wf, err := selector.Select(workflows, attrs)
		if err != nil {
			t.Fatalf("Select() unexpected error on repeat %d: %v", i, err)
		}
		if wf.ID != first.ID {
			t.Fatalf("Select() repeat %d = workflow %d, expected workflow %d", i, wf.ID, first.ID)
		}
	}
}

// TestSelectorNoMatch 测试无匹配时返回 ErrNoWorkflowMatched
func TestSelectorNoMatch(t *testing.T) {
	workflows := []model.Workflow{
		{
			ID:       1,
			Name:     "只收安全类",
			Priority: 1,
			IsActive: true,
			Conditions: []model.WorkflowCondition{
				{ID: 1, Type: model.ConditionTypeCategory, Operator: model.OperatorEq, Value: "Safety", IsActive: true},
			},
		},
	}

	selector := NewSelector()
	if _, err := selector.Select(workflows, Attributes{Category: "Quality"}); err != ErrNoWorkflowMatched {
		t.Errorf("Select() error = %v, expected ErrNoWorkflowMatched", err)
	}

	if _, err := selector.Select(nil, Attributes{Category: "Safety"}); err != ErrNoWorkflowMatched {
		t.Errorf("Select(nil) error = %v, expected ErrNoWorkflowMatched", err)
	}
}

// TestSelectorOperators 测试各条件运算符
func TestSelectorOperators(t *testing.T) {
	tests := []struct {
		name      string
		condition model.WorkflowCondition
		attrs     Attributes
		expected  bool
	}{
		{
			name:      "字符串eq成立",
			condition: model.WorkflowCondition{Type: model.ConditionTypeDivision, Operator: model.OperatorEq, Value: "DIV-001", IsActive: true},
			attrs:     Attributes{DivisionID: "DIV-001"},
			expected:  true,
		},
		{
			name:      "字符串neq成立",
			condition: model.WorkflowCondition{Type: model.ConditionTypeDepartment, Operator: model.OperatorNeq, Value: "DEPT-009", IsActive: true},
			attrs:     Attributes{DepartmentID: "DEPT-001"},
			expected:  true,
		},
		{
			name:      "in列表命中",
			condition: model.WorkflowCondition{Type: model.ConditionTypeCategory, Operator: model.OperatorIn, Value: "Safety, Quality, Cost", IsActive: true},
			attrs:     Attributes{Category: "Quality"},
			expected:  true,
		},
		{
			name:      "in列表未命中",
			condition: model.WorkflowCondition{Type: model.ConditionTypeCategory, Operator: model.OperatorIn, Value: "Safety,Quality", IsActive: true},
			attrs:     Attributes{Category: "Delivery"},
			expected:  false,
		},
		{
			name:      "数值gt成立",
			condition: model.WorkflowCondition{Type: model.ConditionTypeSavingCost, Operator: model.OperatorGt, Value: "1000", IsActive: true},
			attrs:     Attributes{SavingCost: decimal.NewFromInt(1001)},
			expected:  true,
		},
		{
			name:      "数值lte边界成立",
			condition: model.WorkflowCondition{Type: model.ConditionTypeSavingCost, Operator: model.OperatorLte, Value: "1000", IsActive: true},
			attrs:     Attributes{SavingCost: decimal.NewFromInt(1000)},
			expected:  true,
		},
		{
			name:      "事件eq成立",
			condition: model.WorkflowCondition{Type: model.ConditionTypeEvent, Operator: model.OperatorEq, Value: "EVT-2026", IsActive: true},
			attrs:     Attributes{EventID: "EVT-2026"},
			expected:  true,
		},
		{
			name:      "非活跃条件被跳过",
			condition: model.WorkflowCondition{Type: model.ConditionTypeCategory, Operator: model.OperatorEq, Value: "Safety", IsActive: false},
			attrs:     Attributes{Category: "Quality"},
			expected:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workflows := []model.Workflow{{ID: 1, Name: "测试流程", Priority: 1, IsActive: true, Conditions: []model.WorkflowCondition{tt.condition}}}
			selector := NewSelector()
			wf, err := selector.Select(workflows, tt.attrs)
			matched := err == nil && wf != nil
			if matched != tt.expected {
				t.Errorf("matched = %v (err=%v), expected %v", matched, err, tt.expected)
			}
		})
	}
}

// TestSelectorBadCondition 测试坏条件按不匹配处理，不阻塞其他工作流
func TestSelectorBadCondition(t *testing.T) {
	workflows := []model.Workflow{
		{
			ID:       1,
			Name:     "坏配置流程",
			Priority: 1,
			IsActive: true,
			Conditions: []model.WorkflowCondition{
				{ID: 1, Type: model.ConditionTypeSavingCost, Operator: model.OperatorGte, Value: "不是数字", IsActive: true},
			},
		},
		{
			ID:       2,
			Name:     "兜底流程",
			Priority: 2,
			IsActive: true,
		},
	}

	selector := NewSelector()
	wf, err := selector.Select(workflows, Attributes{SavingCost: decimal.NewFromInt(50000)})
	if err != nil {
		t.Fatalf("Select() unexpected error: %v", err)
	}
	if wf.ID != 2 {
		t.Errorf("Select() = workflow %d, expected bad-condition workflow skipped and workflow 2 selected", wf.ID)
	}
}
