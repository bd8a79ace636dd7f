package response

type Resp struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// New 构造函数（保证 data 不为 null）
func New(code int, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

// OK 成功响应
func OK(data interface{}) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

// Error 失败响应（可以传自定义 msg 覆盖默认）
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, struct{}{})
}

// Invalid 校验失败：字段错误 + 原样回显的输入
func Invalid(errors map[string][]string, old map[string]string) Resp {
	if old == nil {
		old = map[string]string{}
	}
	return New(CodeUnprocessable, CodeMsgMap[CodeUnprocessable], map[string]any{
		"errors": errors,
		"old":    old,
	})
}

// Status AJAX 删除/提交类接口的返回体
type Status struct {
	Status  bool                `json:"status"`
	Message string              `json:"message,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}
