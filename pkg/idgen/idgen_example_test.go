package idgen_test

import (
	"fmt"

	"github.com/jimyag/gsp/pkg/idgen"
)

func ExampleGenerator_GenerateInstanceID() {
	gen := idgen.New()

	// 生成实例 ID
	instanceID, err := gen.GenerateInstanceID()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	// 验证格式
	if len(instanceID) > 4 && instanceID[:4] == "srv-" {
		fmt.Println("Instance ID format is correct")
	}
	// Output: Instance ID format is correct
}

func ExampleGenerator_GeneratePlanID() {
	gen := idgen.New()

	// 生成套餐 ID
	planID, err := gen.GeneratePlanID()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	// 验证格式
	if len(planID) > 5 && planID[:5] == "plan-" {
		fmt.Println("Plan ID format is correct")
	}
	// Output: Plan ID format is correct
}

func ExampleGenerator_GenerateID() {
	gen := idgen.New()

	// 生成多个 ID，验证它们是递增的
	var prevID uint64
	for i := 0; i < 5; i++ {
		id, err := gen.GenerateID()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if i > 0 && id > prevID {
			fmt.Printf("ID %d is greater than previous ID\n", i+1)
		}
		prevID = id
	}
	// Output:
	// ID 2 is greater than previous ID
	// ID 3 is greater than previous ID
	// ID 4 is greater than previous ID
	// ID 5 is greater than previous ID
}

func ExampleGenerateInstanceID() {
	// 使用包级别的便捷函数，直接使用默认生成器
	instanceID, err := idgen.GenerateInstanceID()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if len(instanceID) > 4 && instanceID[:4] == "srv-" {
		fmt.Println("Using package-level function")
	}
	// Output: Using package-level function
}
