package service

import "encoding/xml"

// TestResult 评测报告中单个测试的结果
type TestResult struct {
	Name   string `json:"name"`
	Status string `json:"status"` // PASS 或 FAIL
}

type junitTestCase struct {
	Name    string        `xml:"name,attr"`
	Failure *junitFailure `xml:"failure"`
	Error   *junitFailure `xml:"error"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
}

type junitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	TestCases []junitTestCase `xml:"testcase"`
}

// ParseJUnitReport 将评测模板打印到 stdout 的 JUnit XML 解析为测试结果列表。
// 报告格式必须与既有评测部署保持一致；畸形报告按零个通过处理，不报错。
func ParseJUnitReport(report string) []TestResult {
	if report == "" {
		return nil
	}

	var suite junitTestSuite
	if err := xml.Unmarshal([]byte(report), &suite); err != nil {
		return nil
	}

	results := make([]TestResult, 0, len(suite.TestCases))
	for _, tc := range suite.TestCases {
		status := "PASS"
		if tc.Failure != nil || tc.Error != nil {
			status = "FAIL"
		}
		results = append(results, TestResult{Name: tc.Name, Status: status})
	}
	return results
}
