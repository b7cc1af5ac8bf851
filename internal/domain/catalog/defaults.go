package catalog

// Default returns the built-in impact-type -> causes taxonomy the
// catalog is seeded from when no persisted copy exists.
func Default() Catalog {
	return New([]Category{
		{
			Name: "Paro de Ensamble",
			Causes: []string{
				"Falla de equipo",
				"Falta de material",
				"Material incorrecto",
				"Material en hold de calidad",
				"Instrucción de trabajo incorrecta / no disponible",
				"Falta de Personal",
				"Personal no capacitado",
				"Ausentismo",
				"Retraso en surtido interno",
				"Defecto detectado en Máquina",
				"Contención activa",
				"Cambio urgente de prioridad",
			},
		},
		{
			Name: "Retrabajo",
			Causes: []string{
				"Defecto de material",
				"Especificación incorrecta",
				"Instrucción de trabajo no clara",
				"Método no estandarizado",
				"Error de ensamble",
				"Falta de capacitación",
				"Cambio Eng no implementado",
				"Criterio de aceptación incorrecto",
				"Defecto de proveedor",
			},
		},
		{
			Name: "Mejora del Proceso",
			Causes: []string{
				"Tiempo ciclo alto",
				"Cuello de botella",
				"Alta tasa de defectos",
				"Variabilidad del proceso",
				"Riesgo ergonómico",
				"Riesgo de accidente",
				"Scrap elevado",
				"Uso excesivo de consumibles",
				"Exceso de movimiento",
				"Layout ineficiente",
				"Proceso no estandarizado",
				"Secuencia ineficiente",
				"Falta de trazabilidad",
				"Registro manual",
				"Abasto ineficiente",
				"Inventario innecesario",
			},
		},
		{
			Name: "Falta de Material",
			Causes: []string{
				"Error en MRP",
				"Demanda mayor al forecast",
				"Inventario incorrecto en sistema",
				"Ubicación incorrecta",
				"Error de surtido",
				"Proveedor on hold",
				"Retraso de proveedor",
				"Entrega incompleta",
				"Problema de capacidad",
				"Material on hold",
				"Rechazo de lote",
				"Cambio de PN sin stock",
				"Retraso en transporte",
			},
		},
	})
}
